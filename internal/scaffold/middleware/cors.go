// Copyright © 2025 jackelyj <dreamerlyj@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
//

package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/innovationmech/scaffold/pkg/logger"
)

// CORSConfig mirrors the ALLOW_* settings. "*" means any value.
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	AllowCredentials bool
	MaxAge           time.Duration
}

var allMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
	http.MethodDelete, http.MethodHead, http.MethodOptions,
}

// CORS builds the gin-contrib/cors middleware from config.
func CORS(config CORSConfig) gin.HandlerFunc {
	return cors.New(corsConfig(config))
}

func corsConfig(config CORSConfig) cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowCredentials = config.AllowCredentials
	if config.MaxAge > 0 {
		corsConfig.MaxAge = config.MaxAge
	}

	switch {
	case len(config.AllowOrigins) == 0:
		corsConfig.AllowAllOrigins = true
	case contains(config.AllowOrigins, "*") && config.AllowCredentials:
		// credentialed requests need the concrete origin echoed back
		corsConfig.AllowOriginFunc = func(string) bool { return true }
	case contains(config.AllowOrigins, "*"):
		corsConfig.AllowAllOrigins = true
	default:
		corsConfig.AllowOrigins = config.AllowOrigins
	}

	if len(config.AllowMethods) > 0 && !contains(config.AllowMethods, "*") {
		corsConfig.AllowMethods = config.AllowMethods
	} else {
		corsConfig.AllowMethods = allMethods
	}

	if len(config.AllowHeaders) > 0 && !contains(config.AllowHeaders, "*") {
		corsConfig.AllowHeaders = config.AllowHeaders
	} else {
		corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", RequestIDHeader}
	}
	corsConfig.ExposeHeaders = []string{RequestIDHeader}

	logger.GetLogger().Info("CORS middleware configured",
		zap.Strings("allow_origins", config.AllowOrigins),
		zap.Strings("allow_methods", corsConfig.AllowMethods),
		zap.Strings("allow_headers", corsConfig.AllowHeaders),
		zap.Bool("allow_credentials", corsConfig.AllowCredentials))

	return corsConfig
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
