package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skywardclean/ordering-backend/internal/services"
)

type ImportHandler struct {
	importService *services.ImportService
}

func NewImportHandler(importService *services.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

type rowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Import accepts a multipart spreadsheet upload (xlsx or csv). The batch is
// gated on zero validation errors: any bad row rejects the whole file before
// a single record is written.
func (ih *ImportHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	defer file.Close()

	var rows []services.ImportRow
	name := strings.ToLower(fileHeader.Filename)
	switch {
	case strings.HasSuffix(name, ".csv"):
		rows, err = ih.importService.ParseCSV(file)
	case strings.HasSuffix(name, ".xlsx"), strings.HasSuffix(name, ".xls"):
		rows, err = ih.importService.ParseWorkbook(file)
	default:
		RespondError(c, http.StatusBadRequest, "bad_file_type", errInvalidFileType)
		return
	}
	if err != nil {
		RespondError(c, http.StatusBadRequest, "parse_failed", err)
		return
	}

	expectedSite := c.PostForm("site_name")
	if verrs := ih.importService.Validate(rows, expectedSite); len(verrs) > 0 {
		out := make([]rowError, 0, len(verrs))
		for _, v := range verrs {
			out = append(out, rowError{Row: v.Row, Field: v.Field, Message: v.Message})
		}
		c.JSON(http.StatusBadRequest, gin.H{"errors": out})
		return
	}

	stats, err := ih.importService.Import(c.Request.Context(), rows)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "import_failed", err)
		return
	}
	RespondOK(c, gin.H{"stats": stats})
}

var errInvalidFileType = &services.ValidationError{Field: "File", Message: "invalid file type, upload an Excel (.xlsx) or CSV file"}
