package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skywardclean/ordering-backend/internal/services"
	"github.com/skywardclean/ordering-backend/internal/types"
)

type SiteHandler struct {
	siteService *services.SiteService
}

func NewSiteHandler(siteService *services.SiteService) *SiteHandler {
	return &SiteHandler{siteService: siteService}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "bad_id", errors.New("invalid "+name))
		return 0, false
	}
	return id, true
}

func respondServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	RespondError(c, http.StatusInternalServerError, "store", err)
}

func (sh *SiteHandler) List(c *gin.Context) {
	sites, err := sh.siteService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"sites": sites})
}

func (sh *SiteHandler) Detail(c *gin.Context) {
	siteID, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := sh.siteService.Detail(c.Request.Context(), siteID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, detail)
}

type createSiteBody struct {
	Name      string   `json:"name"`
	Employees []string `json:"employees"`
	Supplies  []struct {
		Name     string `json:"name"`
		SKU      string `json:"sku"`
		Category string `json:"category"`
	} `json:"supplies"`
}

func (sh *SiteHandler) Create(c *gin.Context) {
	var body createSiteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	req := services.CreateSiteRequest{Name: body.Name, Employees: body.Employees}
	for _, s := range body.Supplies {
		req.Supplies = append(req.Supplies, services.NewSupply{
			Name:     s.Name,
			SKU:      s.SKU,
			Category: types.Category(s.Category),
		})
	}
	siteID, err := sh.siteService.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"site_id": siteID})
}

func (sh *SiteHandler) Delete(c *gin.Context) {
	siteID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := sh.siteService.Delete(c.Request.Context(), siteID); err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": siteID})
}

func (sh *SiteHandler) AddEmployee(c *gin.Context) {
	siteID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		FullName string `json:"full_name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	employeeID, err := sh.siteService.AddEmployee(c.Request.Context(), siteID, body.FullName)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"employee_id": employeeID})
}

func (sh *SiteHandler) RemoveEmployee(c *gin.Context) {
	siteID, ok := pathID(c, "id")
	if !ok {
		return
	}
	employeeID, ok := pathID(c, "employeeId")
	if !ok {
		return
	}
	if err := sh.siteService.RemoveEmployee(c.Request.Context(), siteID, employeeID); err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"removed": employeeID})
}

func (sh *SiteHandler) AddItem(c *gin.Context) {
	siteID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Name     string `json:"name"`
		SKU      string `json:"sku"`
		Category string `json:"category"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	itemID, err := sh.siteService.AddItem(c.Request.Context(), siteID, body.SKU, body.Name, types.Category(body.Category))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"item_id": itemID})
}

func (sh *SiteHandler) RemoveItem(c *gin.Context) {
	siteID, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	if err := sh.siteService.RemoveItem(c.Request.Context(), siteID, itemID); err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"removed": itemID})
}

func (sh *SiteHandler) SetPar(c *gin.Context) {
	siteID, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	var body struct {
		Par int `json:"par"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := sh.siteService.SetPar(c.Request.Context(), siteID, itemID, body.Par); err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"par": body.Par})
}

func (sh *SiteHandler) SetImage(c *gin.Context) {
	siteID, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	sku := c.PostForm("sku")
	fileHeader, err := c.FormFile("image")
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
	upload := &services.ImageUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        file,
	}
	if err := sh.siteService.SetImage(c.Request.Context(), siteID, itemID, sku, upload); err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"item_id": itemID})
}

func (sh *SiteHandler) SetItemCategory(c *gin.Context) {
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	var body struct {
		Category string `json:"category"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := sh.siteService.SetItemCategory(c.Request.Context(), itemID, types.Category(body.Category)); err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"item_id": itemID})
}
