package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"food-order-api/internal/apperrors"
	"food-order-api/internal/middleware"
	"food-order-api/internal/repository"
	"food-order-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ImageUploader stores an uploaded image and returns its public URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

type RestaurantHandler struct {
	restaurantService services.RestaurantService
	uploader          ImageUploader
}

func NewRestaurantHandler(restaurantService services.RestaurantService, uploader ImageUploader) *RestaurantHandler {
	return &RestaurantHandler{restaurantService: restaurantService, uploader: uploader}
}

type createRestaurantRequest struct {
	Name           string  `json:"name" binding:"required"`
	Cuisine        string  `json:"cuisine" binding:"required"`
	City           string  `json:"city" binding:"required"`
	District       string  `json:"district"`
	Address        string  `json:"address" binding:"required"`
	Phone          string  `json:"phone"`
	DeliveryTime   int     `json:"delivery_time"`
	DeliveryFee    float64 `json:"delivery_fee"`
	MinOrderAmount float64 `json:"min_order_amount"`
}

type updateRestaurantRequest struct {
	Name           *string  `json:"name"`
	Cuisine        *string  `json:"cuisine"`
	City           *string  `json:"city"`
	District       *string  `json:"district"`
	Address        *string  `json:"address"`
	Phone          *string  `json:"phone"`
	DeliveryTime   *int     `json:"delivery_time"`
	DeliveryFee    *float64 `json:"delivery_fee"`
	MinOrderAmount *float64 `json:"min_order_amount"`
	IsOpen         *bool    `json:"is_open"`
}

type createCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type createMenuItemRequest struct {
	CategoryID  uint    `json:"category_id" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	ImageURL    string  `json:"image_url"`
}

func (h *RestaurantHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	minRating, _ := strconv.ParseFloat(c.Query("minRating"), 64)

	result, err := h.restaurantService.ListRestaurants(repository.RestaurantFilter{
		City:      c.Query("city"),
		Cuisine:   c.Query("cuisine"),
		MinRating: minRating,
		Search:    c.Query("search"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *RestaurantHandler) Get(c *gin.Context) {
	id, err := restaurantID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
		return
	}

	restaurant, err := h.restaurantService.GetRestaurant(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

func (h *RestaurantHandler) GetMenu(c *gin.Context) {
	id, err := restaurantID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
		return
	}

	menu, err := h.restaurantService.GetMenu(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

func (h *RestaurantHandler) GetMenuItem(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu item id"})
		return
	}

	item, err := h.restaurantService.GetMenuItem(uint(itemID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *RestaurantHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	searchType := services.SearchType(c.DefaultQuery("type", string(services.SearchAll)))

	results, err := h.restaurantService.Search(query, searchType, c.Query("city"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *RestaurantHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req createRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	restaurant, err := h.restaurantService.CreateRestaurant(user, services.CreateRestaurantInput{
		Name:           req.Name,
		Cuisine:        req.Cuisine,
		City:           req.City,
		District:       req.District,
		Address:        req.Address,
		Phone:          req.Phone,
		DeliveryTime:   req.DeliveryTime,
		DeliveryFee:    req.DeliveryFee,
		MinOrderAmount: req.MinOrderAmount,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, restaurant)
}

func (h *RestaurantHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := restaurantID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
		return
	}

	var req updateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	restaurant, err := h.restaurantService.UpdateRestaurant(user, id, services.UpdateRestaurantInput{
		Name:           req.Name,
		Cuisine:        req.Cuisine,
		City:           req.City,
		District:       req.District,
		Address:        req.Address,
		Phone:          req.Phone,
		DeliveryTime:   req.DeliveryTime,
		DeliveryFee:    req.DeliveryFee,
		MinOrderAmount: req.MinOrderAmount,
		IsOpen:         req.IsOpen,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

func (h *RestaurantHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := restaurantID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
		return
	}

	if err := h.restaurantService.DeleteRestaurant(user, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "restaurant deleted"})
}

func (h *RestaurantHandler) CreateCategory(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := restaurantID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
		return
	}

	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.restaurantService.CreateCategory(user, id, req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *RestaurantHandler) AddMenuItem(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := restaurantID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
		return
	}

	var req createMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.restaurantService.AddMenuItem(user, id, services.CreateMenuItemInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UploadImage attaches a multipart image to the restaurant.
func (h *RestaurantHandler) UploadImage(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := restaurantID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
		return
	}

	imageURL, err := h.storeUploadedImage(c, fmt.Sprintf("restaurants/%d", id))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.restaurantService.SetRestaurantImage(user, id, imageURL); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"image_url": imageURL})
}

// UploadMenuItemImage attaches a multipart image to a menu item.
func (h *RestaurantHandler) UploadMenuItemImage(c *gin.Context) {
	user := middleware.CurrentUser(c)

	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu item id"})
		return
	}

	imageURL, err := h.storeUploadedImage(c, "menu-items")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.restaurantService.SetMenuItemImage(user, uint(itemID), imageURL); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"image_url": imageURL})
}

func (h *RestaurantHandler) storeUploadedImage(c *gin.Context, prefix string) (string, error) {
	if h.uploader == nil {
		return "", apperrors.Internal("object storage is not configured", nil)
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		return "", apperrors.BadRequest("image file is required")
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	key := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), filepath.Ext(header.Filename))

	imageURL, err := h.uploader.UploadImage(c.Request.Context(), key, file, contentType)
	if err != nil {
		return "", apperrors.Internal("failed to store image", err)
	}
	return imageURL, nil
}

func restaurantID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}
