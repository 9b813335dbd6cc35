package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/inkwell-app/inkwell-be/app"
	"github.com/inkwell-app/inkwell-be/config"
	"github.com/inkwell-app/inkwell-be/db/upperdb"
	"github.com/inkwell-app/inkwell-be/routes"
	"github.com/inkwell-app/inkwell-be/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}

	database, err := upperdb.Connect(cfg)
	if err != nil {
		log.Fatal("Received err when attempting to connect to DB", err)
	}
	defer database.Close()

	err = configureFirebaseCredentials()
	if err != nil {
		log.Fatal("an error occurred while configuring firebase credentials", err)
	}
	firebaseApp, err := firebase.NewApp(context.Background(), nil)
	if err != nil {
		log.Fatalf("error initializing firebase: %v\n", err)
	}
	authClient, err := firebaseApp.Auth(context.Background())
	if err != nil {
		log.Fatal("error initializing auth client", err)
	}

	var bucket *services.StorageBucket
	if cfg.StorageBucket != "" {
		bucket, err = services.NewStorageBucket(context.Background(), firebaseApp, cfg.StorageBucket)
		if err != nil {
			log.Fatal("An error occurred while connecting to the post images bucket", err)
		}
	}

	cache := app.NewPageCache(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), cfg.FeedCacheTTL)
	feeds := app.NewFeedService(database, cache)
	subs := app.NewSubscriptionService(database)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.FrontOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	routes.AddHealthCheckRoutes(&r.RouterGroup)
	routes.AddFeedRoutes(&r.RouterGroup, database, feeds, cache, authClient)
	routes.AddGroupRoutes(&r.RouterGroup, database, authClient)
	routes.AddPostRoutes(&r.RouterGroup, database, authClient, subs, bucket)
	routes.AddSubscriptionRoutes(&r.RouterGroup, database, subs, authClient)
	routes.AddUserRoutes(&r.RouterGroup, database, feeds, subs, authClient)

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Error when attempting to run web server", err)
	}
}

const (
	CredentialsPathEnvVar = "GOOGLE_APPLICATION_CREDENTIALS"
	CredentialsJsonEnvVar = "GOOGLE_APPLICATION_CREDENTIALS_JSON"
	TargetCredentialsFile = "./google-application-credentials.json"
)

func configureFirebaseCredentials() error {
	credentialsPath, hasCredentialsPath := os.LookupEnv(CredentialsPathEnvVar)
	if hasCredentialsPath {
		log.Printf("Credentials path detected in env. Expecting credentails to be at %v\n", credentialsPath)
		return nil
	}
	credentialsJson, hasCredentialsJson := os.LookupEnv(CredentialsJsonEnvVar)
	if hasCredentialsJson {
		log.Println("Credentials JSON string detected in env.")
		err := os.WriteFile(TargetCredentialsFile, []byte(credentialsJson), 400)
		if err != nil {
			return fmt.Errorf("error writing credentials to temp file, %w", err)
		}
		err = os.Setenv(CredentialsPathEnvVar, TargetCredentialsFile)
		if err != nil {
			return fmt.Errorf("error setting %v env var %w", CredentialsPathEnvVar, err)
		}
		return nil
	}
	return fmt.Errorf("must specify either %v (a path)"+
		" or %v (credentials as JSON string)", CredentialsPathEnvVar, CredentialsJsonEnvVar)
}
