package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/madamisu/venue_backend/models"
	"github.com/madamisu/venue_backend/utils"
)

func listStoresHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireOrganization(c); !ok {
			return
		}
		stores, err := models.AllStores(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"stores": stores})
	}
}

func getStoreHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireOrganization(c); !ok {
			return
		}
		store, err := models.GetStore(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "store not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, store)
	}
}
