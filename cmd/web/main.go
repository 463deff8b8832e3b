// cmd/web/main.go
package main

import (
	"context"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cmoralesv/importaCartolas/internal/api/handlers"
	"github.com/cmoralesv/importaCartolas/internal/api/middleware"
	"github.com/cmoralesv/importaCartolas/internal/api/responses"
	"github.com/cmoralesv/importaCartolas/internal/core/auth"
)

// initFirestoreClient inicializa el cliente de Firestore.
func initFirestoreClient(ctx context.Context) *firestore.Client {
	projectID := "importa-cartolas"
	databaseID := "importa-cartolas-db"
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		responses.Log().Fatal("error al inicializar el cliente de Firestore",
			zap.String("database", databaseID), zap.Error(err))
	}
	responses.Log().Info("conectado a Firestore", zap.String("database", databaseID))
	return client
}

func main() {
	responses.InitLogger()
	ctx := context.Background()
	firestoreClient := initFirestoreClient(ctx)
	defer firestoreClient.Close()

	authService := auth.NewService(firestoreClient)
	authHandler := handlers.NewAuthHandler(authService)
	cartolaHandler := handlers.NewCartolaHandler()

	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/login", authHandler.Login)
		protected := apiV1.Group("/")
		protected.Use(middleware.AuthMiddleware(nil))
		{
			protected.POST("/cartolas/detectar", cartolaHandler.HandleDetect)
			protected.POST("/cartolas/preprocesar", middleware.PermissionMiddleware("cartolas"), cartolaHandler.HandlePreprocess)
		}
	}
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	responses.Log().Info("servidor escuchando", zap.String("port", port))

	if err := router.Run(":" + port); err != nil {
		responses.Log().Fatal("falla al iniciar el servidor", zap.Error(err))
	}
}
