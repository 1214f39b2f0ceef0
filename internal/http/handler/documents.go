package handler

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"gymapi/internal/model"
	"gymapi/internal/service"
)

type invalidateRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// ListDocuments lists documents with limit & offset, optionally filtered by
// athlete_id, status, category and a file name search.
//
// @Summary List documents
// @Tags documents
// @Security BearerAuth
// @Param limit query int false "limit" default(10)
// @Param offset query int false "offset" default(0)
// @Success 200 {object} service.DocumentListResult
// @Failure 400 {object} errorPayload
// @Router /api/v1/documents [get]
func ListDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		f := model.DocumentFilter{
			AthleteID: c.Query("athlete_id"),
			Status:    c.Query("status"),
			Category:  c.Query("category"),
			Search:    c.Query("search"),
		}
		res, err := docSvc.List(c.UserContext(), actor(c), f, limit, offset)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(res)
	}
}

// UploadDocument stores a file (multipart/form-data, field name: file) for
// the athlete in form field athlete_id.
//
// @Summary Upload document
// @Tags documents
// @Security BearerAuth
// @Accept multipart/form-data
// @Param file formData file true "document"
// @Param athlete_id formData string true "athlete id"
// @Param category formData string false "medical|identity|contract|privacy|other"
// @Param expires_at formData string false "YYYY-MM-DD"
// @Success 201 {object} model.Document
// @Router /api/v1/documents [post]
func UploadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		expires, err := optionalDate(c.FormValue("expires_at"))
		if err != nil {
			return fail(c, err)
		}
		var notes *string
		if n := c.FormValue("notes"); n != "" {
			notes = &n
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := docSvc.Upload(c.UserContext(), actor(c), service.UploadInput{
			AthleteID:   c.FormValue("athlete_id"),
			Category:    c.FormValue("category"),
			Filename:    fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
			ExpiresAt:   expires,
			Notes:       notes,
		}, f)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument returns metadata and a presigned download URL.
func GetDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		doc, err := docSvc.Get(c.UserContext(), actor(c), id)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(doc)
	}
}

// DownloadDocument streams the stored file through the API.
func DownloadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		rc, doc, err := docSvc.Open(c.UserContext(), actor(c), id)
		if err != nil {
			return fail(c, err)
		}
		c.Set(fiber.HeaderContentType, doc.ContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.FileName))
		// fasthttp closes rc once the body is written.
		return c.SendStream(rc, int(doc.Size))
	}
}

// DeleteDocument removes the file and its metadata.
func DeleteDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		if err := docSvc.Delete(c.UserContext(), actor(c), id); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func InvalidateDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		var in invalidateRequest
		if err := bindJSON(c, &in); err != nil {
			return fail(c, err)
		}
		doc, err := docSvc.MarkInvalid(c.UserContext(), actor(c), id, in.Reason)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(doc)
	}
}
