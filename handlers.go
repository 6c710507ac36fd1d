package main

import (
	"fmt"
	"image"
	"mime/multipart"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cnicdet/pkg/card"
	"cnicdet/pkg/logger"
)

func setupRoutes(r *gin.Engine) {
	r.GET("/healthz", healthHandler)
	grp := r.Group("")
	if len(jwtSecret) > 0 {
		grp.Use(jwtAuthMiddleware())
	}
	grp.POST("/detect", detectHandler)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// envelope builds the consistent JSON response shape used by every endpoint.
func envelope(success bool, message string, data any, errs []string) gin.H {
	if errs == nil {
		errs = []string{}
	}
	return gin.H{"success": success, "message": message, "data": data, "errors": errs}
}

// detectHandler accepts front + back card images, runs the pipeline and
// returns the structured record. The handler carries no extraction logic.
func detectHandler(c *gin.Context) {
	reqID := uuid.New().String()
	defer func() {
		if r := recover(); r != nil {
			logger.S().Errorw("unhandled error in detect", "request_id", reqID, "panic", r)
			c.JSON(http.StatusInternalServerError,
				envelope(false, "Internal server error", nil, []string{fmt.Sprint(r)}))
		}
	}()

	frontFH, errFront := c.FormFile("front_image")
	backFH, errBack := c.FormFile("back_image")
	if errFront != nil || errBack != nil {
		c.JSON(http.StatusBadRequest,
			envelope(false, "Missing required files: 'front_image' and 'back_image'", nil, []string{"missing_files"}))
		return
	}

	front, errFront := readFormImage(frontFH)
	back, errBack := readFormImage(backFH)
	if errFront != nil || errBack != nil {
		c.JSON(http.StatusBadRequest,
			envelope(false, "Unable to decode one or both uploaded images", nil, []string{"invalid_image"}))
		return
	}

	res := pipe.Process(front, back)
	switch res.Outcome {
	case card.OutcomeNoFace:
		c.JSON(http.StatusUnprocessableEntity,
			envelope(false, "No face detected on the front image", nil, []string{res.Outcome.Code()}))
	case card.OutcomeMismatch:
		c.JSON(http.StatusNotAcceptable,
			envelope(false, "Front and back CNIC numbers do not match",
				gin.H{"front_cnic": orNull(res.FrontCNIC), "back_cnic": orNull(res.BackCNIC)},
				[]string{res.Outcome.Code()}))
	default:
		logger.S().Infow("id card processed", "request_id", reqID, "fields", len(res.CardInfo))
		c.JSON(http.StatusOK,
			envelope(true, "ID card processed successfully", gin.H{
				"card_info":     res.CardInfo,
				"front_cnic":    res.FrontCNIC,
				"back_cnic":     res.BackCNIC,
				"ocr_upper_raw": rawOrEmpty(res.UpperRaw),
				"ocr_lower_raw": rawOrEmpty(res.LowerRaw),
			}, nil))
	}
}

func readFormImage(fh *multipart.FileHeader) (image.Image, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return imaging.Decode(f)
}

// orNull keeps absent identifiers as JSON null rather than "".
func orNull(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func rawOrEmpty(raw []string) []string {
	if raw == nil {
		return []string{}
	}
	return raw
}
