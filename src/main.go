package main

import (
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"strconv"
	"time"

	"cbs/src/boot"
	"cbs/src/common"
	"cbs/src/config"
	"cbs/src/controllers"
	"cbs/src/db"
	"cbs/src/middlewares"
	"cbs/src/models"
	"cbs/src/types"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
	"gorm.io/gorm"
)

const (
	apiPrefix string = "/api/v1"
)

var bookableDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	eventDate, err := time.Parse(config.DATE_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	today, _ := time.Parse(config.DATE_PARSE_FORMAT, time.Now().Format(config.DATE_PARSE_FORMAT))
	return !eventDate.Before(today)
}

var bookingSlotValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	slot, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return types.IsValidSlot(types.Slot(slot))
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("bookabledate", bookableDateValidatorFunc)
		v.RegisterValidation("bookingslot", bookingSlotValidatorFunc)
	}
}

// canAccess allows the resource owner and administrators through.
func canAccess(ctx *gin.Context, ownerID uint) bool {
	return ctx.GetString("role") == types.ROLE_ADMIN || ctx.GetUint("id") == ownerID
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middlewares.SecureHeaders)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		mm := os.Getenv("MAINTENANCE_MODE")
		enabled, err := strconv.ParseBool(mm)
		if err == nil && enabled {
			err := errors.New("server is under maintenance")
			log.Println(err.Error())
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, err.Error())
			return
		}
	})
	return g
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

func publicRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.
		GET("/menu", func(ctx *gin.Context) {
			var filters types.MenuQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			gdb := db.GetDb()
			query := gdb.Model(&models.MenuItem{}).Order("category, name")
			if filters.Category != "" {
				query = query.Where("category = ?", filters.Category)
			}
			if filters.Available != nil {
				query = query.Where("available = ?", *filters.Available)
			}
			var items []models.MenuItem
			if err := query.Find(&items).Error; err != nil {
				log.Printf("Error listing menu items: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": items, "count": len(items)})
		}).
		GET("/menu/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			gdb := db.GetDb()
			var item models.MenuItem
			if err := gdb.
				Model(&models.MenuItem{}).
				Where(&models.MenuItem{ID: params.ID}).
				First(&item).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": item})
		}).
		GET("/offers", func(ctx *gin.Context) {
			gdb := db.GetDb()
			var offers []models.Offer
			if err := gdb.Model(&models.Offer{}).Order("created_at DESC").Find(&offers).Error; err != nil {
				log.Printf("Error listing offers: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": offers, "count": len(offers)})
		}).
		GET("/offers/active", func(ctx *gin.Context) {
			offers, err := common.ActiveOffers(ctx)
			if err != nil {
				log.Printf("Error listing active offers: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": offers, "count": len(offers)})
		}).
		GET("/bookings/availability/:date", func(ctx *gin.Context) {
			var params types.DateURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if _, err := time.Parse(config.DATE_PARSE_FORMAT, params.Date); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted YYYY-MM-DD"})
				return
			}
			available, err := common.GetAvailability(params.Date)
			if err != nil {
				log.Printf("Error computing availability for %s: %s\n", params.Date, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"date": params.Date, "available": available})
		})

	promoValidateRoute(apiv1)
	return apiv1
}

func guestAuthRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	auth := apiv1.Group("/auth")
	auth.
		POST("/register", func(ctx *gin.Context) {
			result, status, err := controllers.AuthRegister(ctx)
			if err != nil {
				var policyErr *controllers.PasswordPolicyError
				if errors.As(err, &policyErr) {
					ctx.JSON(status, gin.H{
						"error":    "password does not meet the policy",
						"reasons":  policyErr.Reasons,
						"strength": policyErr.Strength,
					})
					return
				}
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"token": result.Token, "password_strength": result.Strength})
		}).
		POST("/login", func(ctx *gin.Context) {
			result, status, err := controllers.AuthLogin(ctx)
			if err != nil {
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"token": result.Token})
		})
	return apiv1
}

func registerRoutes(router *gin.Engine) {
	publicRoutes(router)
	guestAuthRoutes(router)

	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	{
		authorized.POST("/auth/logout", func(ctx *gin.Context) {
			status, err := controllers.AuthLogout(ctx)
			if err != nil {
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(status)
		})
		bookingHandlers(authorized)
		receiptHandlers(authorized)
	}

	admin := router.Group(apiPrefix)
	admin.Use(middlewares.AuthMiddleware, middlewares.RequireRole(types.ROLE_ADMIN))
	{
		menuHandlers(admin)
		offerHandlers(admin)
		promoHandlers(admin)
		adminBookingHandlers(admin)
		adminReceiptHandlers(admin)
	}
}

func initLogger() {
	cwd, _ := os.Getwd()
	serverLogs := path.Join(cwd, "logs", "server.log")
	apiLogs := path.Join(cwd, "logs", "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	initLogger()

	boot.InitDb()
	boot.SeedAdmin()
	boot.InitScheduler()

	registerValidators()
	router := setupRouter()
	router = maintenanceModeMiddleware(router)

	// cors must be attached before any route registration; gin snapshots each
	// route's handler chain when the route is added.
	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowOrigins = []string{os.Getenv("APP_HOST")}
		cc.AllowCredentials = true
		router.Use(cors.New(cc))
	}
	registerRoutes(router)

	defer boot.StopScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "9090"
	}
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %s", err)
	}
}
