package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"zoo/animals"
	"zoo/i18n"
	"zoo/middleware"
	"zoo/models"
)

var errMissingName = errors.New("name query parameter is required")

// SearchAnimals requires the name parameter; an empty value matches every animal.
func SearchAnimals(svc *animals.Service, bundle *i18n.Bundle) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.GetQuery("name"); !ok {
			writeBadRequest(c, bundle, errMissingName)
			return
		}

		var params models.SearchParams
		if err := c.ShouldBindQuery(&params); err != nil {
			writeBadRequest(c, bundle, err)
			return
		}

		found, err := svc.Search(c.Request.Context(), params.Name)
		if err != nil {
			writeError(c, bundle, err)
			return
		}

		c.JSON(http.StatusOK, found)
	}
}

func ListAnimals(svc *animals.Service, bundle *i18n.Bundle) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params models.ListParams
		if err := c.ShouldBindQuery(&params); err != nil {
			writeBadRequest(c, bundle, err)
			return
		}

		list, err := svc.List(c.Request.Context(), params)
		if err != nil {
			writeError(c, bundle, err)
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

func GetAnimal(svc *animals.Service, bundle *i18n.Bundle) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			writeError(c, bundle, err)
			return
		}

		animal, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			writeError(c, bundle, err)
			return
		}

		c.JSON(http.StatusOK, animal)
	}
}

func CreateAnimal(svc *animals.Service, bundle *i18n.Bundle) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := bindAnimalRequest(c)
		if err != nil {
			writeBadRequest(c, bundle, err)
			return
		}

		animal, err := svc.Create(c.Request.Context(), req.Name)
		if err != nil {
			writeError(c, bundle, err)
			return
		}

		c.JSON(http.StatusCreated, animal)
	}
}

func UpdateAnimal(svc *animals.Service, bundle *i18n.Bundle) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			writeError(c, bundle, err)
			return
		}

		req, err := bindAnimalRequest(c)
		if err != nil {
			writeBadRequest(c, bundle, err)
			return
		}

		animal, err := svc.Update(c.Request.Context(), id, req.Name)
		if err != nil {
			writeError(c, bundle, err)
			return
		}

		c.JSON(http.StatusOK, animal)
	}
}

func DeleteAnimal(svc *animals.Service, bundle *i18n.Bundle) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			writeError(c, bundle, err)
			return
		}

		if err := svc.Delete(c.Request.Context(), id); err != nil {
			writeError(c, bundle, err)
			return
		}

		lang := middleware.GetLanguage(c, bundle.DefaultLang())
		c.JSON(http.StatusOK, models.MessageResponse{Message: bundle.T(lang, "animal.deleted")})
	}
}

// bindAnimalRequest reads name from the query string, falling back to a
// JSON body when the query carries none.
func bindAnimalRequest(c *gin.Context) (models.AnimalRequest, error) {
	var req models.AnimalRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return req, err
	}
	if req.Name != "" || c.Request.ContentLength == 0 {
		return req, nil
	}
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		return req, err
	}
	return req, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &animals.Error{
			Kind:   animals.KindInvalidID,
			Reason: animals.ReasonInvalidID,
			Args:   []any{raw},
			Err:    err,
		}
	}
	return id, nil
}
