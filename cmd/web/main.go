// cmd/web/main.go
package main

import (
	"context"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/LuisEduardoPedra/gestaoFrota/internal/api/handlers"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/api/middleware"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/api/responses"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/core/approval"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/core/auth"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/core/bulkimport"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/core/drivers"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/core/occurrences"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/core/report"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/core/vehicles"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/storage"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/store/firestoredb"
)

// initFirestoreClient inicializa o cliente do Firestore a partir do ambiente.
func initFirestoreClient(ctx context.Context) *firestore.Client {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		projectID = "gestao-frota"
	}
	databaseID := os.Getenv("FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		databaseID = "(default)"
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		responses.Logger().Fatal("erro ao inicializar cliente Firestore",
			zap.String("database", databaseID), zap.Error(err))
	}
	responses.Logger().Info("conectado ao Firestore", zap.String("database", databaseID))
	return client
}

// initStorage abre o bucket de anexos e relatórios. Sem STORAGE_BUCKET o
// serviço sobe sem uploads; as rotas que dependem dele respondem erro.
func initStorage(ctx context.Context, projectID string) storage.Uploader {
	bucket := os.Getenv("STORAGE_BUCKET")
	if bucket == "" {
		responses.Logger().Warn("STORAGE_BUCKET não definido, uploads desabilitados")
		return nil
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID, StorageBucket: bucket})
	if err != nil {
		responses.Logger().Fatal("erro ao inicializar app Firebase", zap.Error(err))
	}
	uploader, err := storage.NewFirebaseStorage(ctx, app, bucket)
	if err != nil {
		responses.Logger().Fatal("erro ao abrir bucket", zap.String("bucket", bucket), zap.Error(err))
	}
	return uploader
}

func main() {
	responses.InitLogger()
	ctx := context.Background()
	firestoreClient := initFirestoreClient(ctx)
	defer firestoreClient.Close()
	uploader := initStorage(ctx, os.Getenv("FIRESTORE_PROJECT_ID"))

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		responses.Logger().Warn("JWT_SECRET não definido; todos os tokens serão rejeitados")
	}

	motoristas := firestoredb.NovosMotoristas(firestoreClient)
	veiculos := firestoredb.NovosVeiculos(firestoreClient)
	pendMotoristas := firestoredb.NovasPendenciasMotoristas(firestoreClient)
	pendVeiculos := firestoredb.NovasPendenciasVeiculos(firestoreClient)
	ocorrencias := firestoredb.NovasOcorrencias(firestoreClient)

	authService := auth.NewService(firestoreClient, jwtSecret)
	driverService := drivers.NewService(motoristas, pendMotoristas)
	vehicleService := vehicles.NewService(veiculos, pendVeiculos)
	importService := bulkimport.NewService()
	occurrenceService := occurrences.NewService(ocorrencias, uploader)
	reportService := report.NewService(ocorrencias, firestoredb.NovoResolvedor(motoristas, veiculos), uploader)
	approvalMotoristas := approval.NewService(motoristas, pendMotoristas)
	approvalVeiculos := approval.NewService(veiculos, pendVeiculos)

	authHandler := handlers.NewAuthHandler(authService)
	driverHandler := handlers.NewDriverHandler(driverService)
	vehicleHandler := handlers.NewVehicleHandler(vehicleService)
	importHandler := handlers.NewImportHandler(importService, motoristas, veiculos, pendMotoristas, pendVeiculos)
	approvalHandler := handlers.NewApprovalHandler(approvalMotoristas, approvalVeiculos)
	occurrenceHandler := handlers.NewOccurrenceHandler(occurrenceService)
	reportHandler := handlers.NewReportHandler(reportService)

	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/login", authHandler.HandleLogin)

		protected := apiV1.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			protected.GET("/motoristas", driverHandler.HandleList)
			protected.GET("/motoristas/:id", driverHandler.HandleGet)
			protected.POST("/motoristas/submeter", driverHandler.HandleSubmit)

			protected.GET("/veiculos", vehicleHandler.HandleList)
			protected.GET("/veiculos/:id", vehicleHandler.HandleGet)
			protected.POST("/veiculos/submeter", vehicleHandler.HandleSubmit)

			protected.GET("/ocorrencias", occurrenceHandler.HandleList)
			protected.GET("/ocorrencias/:id", occurrenceHandler.HandleGet)
			protected.POST("/ocorrencias", occurrenceHandler.HandleCreate)
			protected.PUT("/ocorrencias/:id", occurrenceHandler.HandleUpdate)
			protected.POST("/ocorrencias/:id/anexo", occurrenceHandler.HandleAttach)

			protected.GET("/relatorios/ocorrencias", reportHandler.HandleReport)

			// Escrita nos cadastros e o workflow de aprovação exigem a role
			// de administração da frota.
			admin := protected.Group("/")
			admin.Use(middleware.PermissionMiddleware("frota_admin"))
			{
				admin.POST("/motoristas", driverHandler.HandleCreate)
				admin.PUT("/motoristas/:id", driverHandler.HandleUpdate)
				admin.PATCH("/motoristas/:id/indicacao", driverHandler.HandleUpdateIndication)
				admin.DELETE("/motoristas/:id", driverHandler.HandleDelete)
				admin.POST("/motoristas/excluir-lote", driverHandler.HandleBulkDelete)

				admin.POST("/veiculos", vehicleHandler.HandleCreate)
				admin.PUT("/veiculos/:id", vehicleHandler.HandleUpdate)
				admin.DELETE("/veiculos/:id", vehicleHandler.HandleDelete)
				admin.POST("/veiculos/excluir-lote", vehicleHandler.HandleBulkDelete)

				admin.DELETE("/ocorrencias/:id", occurrenceHandler.HandleDelete)

				admin.POST("/importar/:entidade/cabecalhos", importHandler.HandleHeaders)
				admin.POST("/importar/:entidade", importHandler.HandleImport)

				admin.POST("/aprovacao/:entidade/:id/rejeitar", approvalHandler.HandleReject)
				admin.POST("/aprovacao/:entidade/:id/aprovar", approvalHandler.HandleApprove)
				admin.POST("/aprovacao/:entidade/:id/resolver", approvalHandler.HandleResolve)
				admin.POST("/aprovacao/:entidade/aprovar-lote", approvalHandler.HandleBulkApprove)
				admin.POST("/aprovacao/:entidade/rejeitar-lote", approvalHandler.HandleBulkReject)
			}
		}
	}
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	responses.Logger().Info("servidor iniciado", zap.String("port", port))

	if err := router.Run(":" + port); err != nil {
		responses.Logger().Fatal("falha ao iniciar o servidor", zap.Error(err))
	}
}
