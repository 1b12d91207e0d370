package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	appcategory "github.com/xiebiao/storefront/internal/application/category"
	apporder "github.com/xiebiao/storefront/internal/application/order"
	appproduct "github.com/xiebiao/storefront/internal/application/product"
	appstock "github.com/xiebiao/storefront/internal/application/stock"
	appuser "github.com/xiebiao/storefront/internal/application/user"
	appwarehouse "github.com/xiebiao/storefront/internal/application/warehouse"
	"github.com/xiebiao/storefront/internal/domain/product"
	"github.com/xiebiao/storefront/internal/domain/user"
	"github.com/xiebiao/storefront/internal/infrastructure/config"
	"github.com/xiebiao/storefront/internal/infrastructure/eventbus"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/storefront/internal/interface/http/handler"
	"github.com/xiebiao/storefront/internal/interface/http/middleware"
	"github.com/xiebiao/storefront/pkg/jwt"
	"github.com/xiebiao/storefront/pkg/logger"
	"github.com/xiebiao/storefront/pkg/metrics"
	"github.com/xiebiao/storefront/pkg/mq"
	"github.com/xiebiao/storefront/pkg/response"
	"github.com/xiebiao/storefront/pkg/tracing"
)

// main 主程序入口
// 说明：手动依赖注入（wire.go里有等价的Wire版本，运行wire gen可生成）
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Sync()

	logger.L.Info("配置加载成功",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("database", fmt.Sprintf("%s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)),
		zap.String("redis", cfg.Redis.Addr()))

	// 3. 初始化监控指标
	metrics.InitMetrics()

	// 4. 初始化链路追踪（可选）
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化链路追踪失败: %v", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.L.Warn("链路追踪关闭失败", zap.Error(err))
			}
		}()
	}

	// 5. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 6. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 7. 初始化事件发布器
	// MQ未启用时退化为空发布器，本地开发不需要起RabbitMQ
	var publisher apporder.EventPublisher
	if cfg.MQ.Enabled {
		mqPublisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
		if err != nil {
			log.Fatalf("初始化MQ发布器失败: %v", err)
		}
		defer mqPublisher.Close()
		publisher = eventbus.NewBreakerPublisher(mqPublisher)
	} else {
		publisher = eventbus.NopPublisher{}
	}

	// 8. 依赖注入（手动组装）
	// 学习要点：依赖注入链
	// Repository ← Service ← UseCase ← Handler

	// 基础设施层
	userRepo := mysql.NewUserRepository(db)
	productRepo := mysql.NewProductRepository(db)
	categoryRepo := mysql.NewCategoryRepository(db)
	warehouseRepo := mysql.NewWarehouseRepository(db)
	movementRepo := mysql.NewMovementRepository(db)
	levelRepo := mysql.NewStockLevelRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 领域层
	userService := user.NewService(userRepo)
	productService := product.NewService(productRepo)

	// 应用层
	registerUseCase := appuser.NewRegisterUseCase(userService)
	loginUseCase := appuser.NewLoginUseCase(userService, jwtManager, sessionStore)
	logoutUseCase := appuser.NewLogoutUseCase(sessionStore)

	createProductUseCase := appproduct.NewCreateProductUseCase(productService)
	manageProductUseCase := appproduct.NewManageProductUseCase(productService)
	getProductUseCase := appproduct.NewGetProductUseCase(productService)
	listProductsUseCase := appproduct.NewListProductsUseCase(productService)

	manageCategoriesUseCase := appcategory.NewManageCategoriesUseCase(categoryRepo)
	manageWarehousesUseCase := appwarehouse.NewManageWarehousesUseCase(warehouseRepo)

	currentStockUseCase := appstock.NewCurrentStockUseCase(movementRepo, levelRepo)
	receiveStockUseCase := appstock.NewReceiveStockUseCase(movementRepo, levelRepo, productRepo, warehouseRepo, txManager)
	adjustStockUseCase := appstock.NewAdjustStockUseCase(movementRepo, levelRepo, productRepo, warehouseRepo, txManager)
	listMovementsUseCase := appstock.NewListMovementsUseCase(movementRepo)

	placeOrderUseCase := apporder.NewPlaceOrderUseCase(
		orderRepo, productRepo, warehouseRepo, movementRepo, levelRepo, txManager, publisher)
	setStatusUseCase := apporder.NewSetStatusUseCase(
		orderRepo, movementRepo, levelRepo, txManager, publisher)
	listOrdersUseCase := apporder.NewListOrdersUseCase(orderRepo)
	getOrderUseCase := apporder.NewGetOrderUseCase(orderRepo)
	trackOrderUseCase := apporder.NewTrackOrderUseCase(orderRepo)

	// 接口层
	userHandler := handler.NewUserHandler(registerUseCase, loginUseCase, logoutUseCase)
	productHandler := handler.NewProductHandler(createProductUseCase, manageProductUseCase, getProductUseCase, listProductsUseCase)
	categoryHandler := handler.NewCategoryHandler(manageCategoriesUseCase)
	warehouseHandler := handler.NewWarehouseHandler(manageWarehousesUseCase)
	stockHandler := handler.NewStockHandler(currentStockUseCase, receiveStockUseCase, adjustStockUseCase, listMovementsUseCase)
	orderHandler := handler.NewOrderHandler(placeOrderUseCase, setStatusUseCase, listOrdersUseCase, getOrderUseCase, trackOrderUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 9. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Metrics())

	// 10. 注册路由
	registerRoutes(r, userHandler, productHandler, categoryHandler, warehouseHandler, stockHandler, orderHandler, authMiddleware)

	// 11. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.L.Info("服务启动",
		zap.String("addr", addr),
		zap.String("swagger", fmt.Sprintf("http://localhost%s/swagger/index.html", addr)))

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// registerRoutes 注册路由
// 路由分三层：公开接口、登录接口、管理员接口
func registerRoutes(
	r *gin.Engine,
	userHandler *handler.UserHandler,
	productHandler *handler.ProductHandler,
	categoryHandler *handler.CategoryHandler,
	warehouseHandler *handler.WarehouseHandler,
	stockHandler *handler.StockHandler,
	orderHandler *handler.OrderHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组
	v1 := r.Group("/api/v1")
	{
		// 用户模块
		users := v1.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.POST("/logout", authMiddleware.RequireAuth(), userHandler.Logout)
		}

		// 商品浏览（公开接口，只看在售商品）
		products := v1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
		}

		// 分类浏览（公开接口）
		v1.GET("/categories", categoryHandler.List)

		// 订单模块
		orders := v1.Group("/orders")
		{
			// 订单跟踪不需要登录，凭订单号查询
			orders.GET("/track/:code", orderHandler.Track)

			// 其余订单接口都需要登录
			authed := orders.Group("")
			authed.Use(authMiddleware.RequireAuth())
			{
				authed.POST("", orderHandler.Place)
				authed.GET("", orderHandler.List)
				authed.GET("/:id", orderHandler.Get)
				authed.PUT("/:id/status", orderHandler.SetStatus)
			}
		}

		// 管理员模块
		admin := v1.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
		{
			// 商品管理（管理员列表能看到下架商品）
			admin.GET("/products", productHandler.List)
			admin.POST("/products", productHandler.Create)
			admin.PUT("/products/:id", productHandler.UpdateInfo)
			admin.PUT("/products/:id/price", productHandler.UpdatePrice)
			admin.PUT("/products/:id/discount", productHandler.SetDiscount)
			admin.PUT("/products/:id/active", productHandler.SetActive)
			admin.DELETE("/products/:id", productHandler.Delete)

			// 分类管理
			admin.POST("/categories", categoryHandler.Create)
			admin.PUT("/categories/:id", categoryHandler.Rename)
			admin.DELETE("/categories/:id", categoryHandler.Delete)

			// 仓库管理
			admin.GET("/warehouses", warehouseHandler.List)
			admin.POST("/warehouses", warehouseHandler.Create)
			admin.PUT("/warehouses/:id/active", warehouseHandler.SetActive)

			// 库存管理
			admin.GET("/stock", stockHandler.Current)
			admin.POST("/stock/receive", stockHandler.Receive)
			admin.POST("/stock/adjust", stockHandler.Adjust)
			admin.GET("/stock/movements", stockHandler.Movements)
		}
	}
}
