// Package api provides the REST API server for volcaseq
package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/freqport/volcaseq/pkg/songfile"
	"github.com/freqport/volcaseq/pkg/volca"
)

// @title volcaseq API
// @version 1.0
// @description API for encoding Korg Volca Sample pattern projects
// @host localhost:8080
// @BasePath /api/v1

// StartServer starts the API server on the specified port
func StartServer(port int) error {
	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/params", listParams)
		v1.GET("/functions", listFunctions)
		v1.POST("/validate", handleValidate)
		v1.POST("/encode", handleEncode)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r.Run(fmt.Sprintf(":%d", port))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "volcaseq",
	})
}

// listParams godoc
// @Summary List knob parameters
// @Description Returns every knob parameter and its valid value range
// @Tags info
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/params [get]
func listParams(c *gin.Context) {
	params := make([]map[string]interface{}, 0, volca.NumParams)
	for _, p := range volca.Params {
		min, max, _ := volca.ParamRange(p)
		params = append(params, map[string]interface{}{
			"name": string(p),
			"min":  min,
			"max":  max,
		})
	}
	c.JSON(http.StatusOK, gin.H{"params": params})
}

// listFunctions godoc
// @Summary List function toggles
// @Description Returns the per-part function toggle names
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/functions [get]
func listFunctions(c *gin.Context) {
	names := make([]string, 0, len(volca.AllFunctions))
	for _, fn := range volca.AllFunctions {
		names = append(names, string(fn))
	}
	c.JSON(http.StatusOK, gin.H{"functions": names})
}

// handleValidate godoc
// @Summary Validate a project file
// @Description Upload a project YAML and check every value against the hardware ranges
// @Tags project
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Project YAML to validate"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/validate [post]
func handleValidate(c *gin.Context) {
	f, ok := readProject(c)
	if !ok {
		return
	}
	project, err := f.Build()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "valid",
		"modified": project.ModifiedPatterns(),
	})
}

// handleEncode godoc
// @Summary Encode one pattern of a project file
// @Description Upload a project YAML and receive the encoded binary blob of one pattern
// @Tags project
// @Accept multipart/form-data
// @Produce application/octet-stream
// @Param file formData file true "Project YAML to encode"
// @Param pattern query int false "Pattern number 1-10 (default: first modified)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/encode [post]
func handleEncode(c *gin.Context) {
	f, ok := readProject(c)
	if !ok {
		return
	}
	project, err := f.Build()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	modified := project.ModifiedPatterns()
	if len(modified) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project has no modified patterns"})
		return
	}

	number := modified[0]
	if q := c.Query("pattern"); q != "" {
		number, err = strconv.Atoi(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pattern must be a number"})
			return
		}
	}

	pattern, err := project.Pattern(number)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := fmt.Sprintf("pattern_p%02d.bin", number)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	c.Data(http.StatusOK, "application/octet-stream", volca.EncodePattern(pattern))
}

func readProject(c *gin.Context) (*songfile.File, bool) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return nil, false
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return nil, false
	}

	f, err := songfile.Parse(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return f, true
}
