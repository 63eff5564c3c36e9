package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"restaurantportal/internal/blobstore"
	"restaurantportal/internal/menu"
	"restaurantportal/internal/models"
)

/*
=======================
  INPUT STRUCTS
=======================
*/

// itemRequest is the JSON form of an item write. Numbers may be sent as
// strings by older admin builds.
type itemRequest struct {
	Name          *string           `json:"name"`
	Description   *string           `json:"description"`
	Price         *models.FlexFloat `json:"price"`
	DiscountType  *string           `json:"discountType"`
	DiscountValue *models.FlexFloat `json:"discountValue"`
	Available     *bool             `json:"available"`
	RemoveImage   bool              `json:"removeImage"`
}

func (r itemRequest) toPatch() menu.ItemPatch {
	patch := menu.ItemPatch{
		Name:         r.Name,
		Description:  r.Description,
		DiscountType: r.DiscountType,
		Available:    r.Available,
		RemoveImage:  r.RemoveImage,
	}
	if r.Price != nil {
		price := r.Price.Float64()
		patch.Price = &price
	}
	if r.DiscountValue != nil {
		value := r.DiscountValue.Float64()
		patch.DiscountValue = &value
	}
	return patch
}

// itemSubmission is a parsed item write plus its optional image. Close must
// be called once the service is done reading the image.
type itemSubmission struct {
	Patch menu.ItemPatch
	Image *blobstore.Upload
	close func()
}

func (s itemSubmission) Close() {
	if s.close != nil {
		s.close()
	}
}

// Input turns the submission into a create request. Absent fields take the
// zero value and are validated by the menu service.
func (s itemSubmission) Input() menu.ItemInput {
	input := menu.ItemInput{Available: s.Patch.Available}
	if s.Patch.Name != nil {
		input.Name = *s.Patch.Name
	}
	if s.Patch.Description != nil {
		input.Description = *s.Patch.Description
	}
	if s.Patch.Price != nil {
		input.Price = *s.Patch.Price
	}
	if s.Patch.DiscountType != nil {
		input.DiscountType = *s.Patch.DiscountType
	}
	if s.Patch.DiscountValue != nil {
		input.DiscountValue = *s.Patch.DiscountValue
	}
	return input
}

/*
=======================
  PARSERS
=======================
*/

func parseItemRequest(c *gin.Context) (itemSubmission, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		return parseMultipartItemRequest(c)
	}

	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return itemSubmission{}, fmt.Errorf("invalid body")
	}
	return itemSubmission{Patch: req.toPatch()}, nil
}

func parseMultipartItemRequest(c *gin.Context) (itemSubmission, error) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		log.Println("[UPLOAD] [ERROR] multipart parse failed:", err)
		return itemSubmission{}, fmt.Errorf("invalid multipart body")
	}

	patch := menu.ItemPatch{}

	// ---- STRING FIELDS ----

	if value, ok := c.GetPostForm("name"); ok {
		value = strings.TrimSpace(value)
		patch.Name = &value
	}

	if value, ok := c.GetPostForm("description"); ok {
		value = strings.TrimSpace(value)
		patch.Description = &value
	}

	if value, ok := c.GetPostForm("discountType"); ok {
		value = strings.TrimSpace(value)
		patch.DiscountType = &value
	}

	// ---- NUMBER FIELDS ----

	if value, ok := c.GetPostForm("price"); ok {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return itemSubmission{}, fmt.Errorf("price must be a number")
		}
		patch.Price = &parsed
	}

	if value, ok := c.GetPostForm("discountValue"); ok {
		trimmed := strings.TrimSpace(value)
		parsed := 0.0
		if trimmed != "" {
			var err error
			parsed, err = strconv.ParseFloat(trimmed, 64)
			if err != nil {
				return itemSubmission{}, fmt.Errorf("discountValue must be a number")
			}
		}
		patch.DiscountValue = &parsed
	}

	// ---- BOOL FIELDS ----

	if value, ok := c.GetPostForm("available"); ok {
		parsed, err := parseBoolValue(value)
		if err != nil {
			return itemSubmission{}, fmt.Errorf("available must be a boolean")
		}
		patch.Available = &parsed
	}

	if value, ok := c.GetPostForm("removeImage"); ok {
		parsed, err := parseBoolValue(value)
		if err != nil {
			return itemSubmission{}, fmt.Errorf("removeImage must be a boolean")
		}
		patch.RemoveImage = parsed
	}

	// ---- IMAGE FILE ----

	submission := itemSubmission{Patch: patch}
	file, err := c.FormFile("image")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) &&
			!strings.Contains(err.Error(), "no such file") {
			return itemSubmission{}, err
		}
		return submission, nil
	}

	body, err := file.Open()
	if err != nil {
		log.Printf("[UPLOAD] [ERROR] failed to open upload %s: %v", file.Filename, err)
		return itemSubmission{}, fmt.Errorf("cannot read image")
	}
	submission.Image = &blobstore.Upload{Filename: file.Filename, Size: file.Size, Body: body}
	submission.close = func() { _ = body.Close() }
	return submission, nil
}
