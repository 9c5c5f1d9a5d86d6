package handler

import (
	"github.com/gin-gonic/gin"

	"roombooking/internal/domain"
	"roombooking/pkg/utils"
)

func pathID(c *gin.Context, invalid *domain.Error) (int64, error) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		return 0, invalid
	}
	return id, nil
}
