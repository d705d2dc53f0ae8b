package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shoeshop/internal/service/catalog"
)

// productsPerPage is the default page size for id-list browsing; the service
// layer returns raw id lists and the cursor math happens here.
const productsPerPage = 3

const maxPerPage = 50

type priceResponse struct {
	Products      []catalog.ProductView `json:"products"`
	PreviousPrice *int64                `json:"previous_price"`
	NextPrice     *int64                `json:"next_price"`
}

type pageResponse struct {
	Products    []*catalog.ProductView `json:"products"`
	Total       int                    `json:"total"`
	Cursor      int                    `json:"cursor"`
	PrevCursor  *int                   `json:"prev_cursor"`
	NextCursor  *int                   `json:"next_cursor"`
	FirstCursor *int                   `json:"first_cursor"`
	LastCursor  *int                   `json:"last_cursor"`
}

func productHandler(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svc.Product(c.Request.Context(), c.Param("id"))
		if err != nil {
			abortCatalogError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func firstProductHandler(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svc.FirstProduct(c.Request.Context())
		if err != nil {
			abortCatalogError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func lastProductHandler(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svc.LastProduct(c.Request.Context())
		if err != nil {
			abortCatalogError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func productsByPriceHandler(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var price int64
		if raw := c.Query("price"); raw != "" {
			var err error
			if price, err = strconv.ParseInt(raw, 10, 64); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "price must be an integer"})
				return
			}
		} else {
			// No price given: start the series at the first product's price.
			first, err := svc.FirstProduct(ctx)
			if err != nil {
				if errors.Is(err, catalog.ErrNonExistentProduct) {
					c.JSON(http.StatusOK, priceResponse{Products: []catalog.ProductView{}})
					return
				}
				abortCatalogError(c, err)
				return
			}
			price = first.Price
		}

		products, prev, next, err := svc.ProductsByPrice(ctx, price)
		if err != nil {
			abortCatalogError(c, err)
			return
		}
		c.JSON(http.StatusOK, priceResponse{Products: products, PreviousPrice: prev, NextPrice: next})
	}
}

func productsByNameHandler(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Query("name")
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
			return
		}
		ids, err := svc.ProductIDsByName(c.Request.Context(), name)
		if err != nil {
			abortCatalogError(c, err)
			return
		}
		respondPage(c, svc, ids)
	}
}

func productsByBrandHandler(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		brand := c.Query("brand")
		if brand == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "brand required"})
			return
		}
		ids, err := svc.ProductIDsForBrand(c.Request.Context(), brand)
		if err != nil {
			abortCatalogError(c, err)
			return
		}
		respondPage(c, svc, ids)
	}
}

func productCommentsHandler(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		comments, err := svc.CommentsForProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			abortCatalogError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"comments": comments})
	}
}

type addCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

func addCommentHandler(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "comment required"})
			return
		}
		username := c.GetString(usernameKey)
		if err := svc.AddComment(c.Request.Context(), c.Param("id"), req.Comment, username); err != nil {
			abortCatalogError(c, err)
			return
		}
		c.Status(http.StatusCreated)
	}
}

func brandsHandler(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		brands, err := svc.Brands(c.Request.Context())
		if err != nil {
			abortCatalogError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"brands": brands})
	}
}

func collectionHandler(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.GetString(usernameKey)
		collection, err := svc.Collection(c.Request.Context(), username)
		if err != nil {
			abortCatalogError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": username, "collection": collection})
	}
}

func addToCollectionHandler(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.GetString(usernameKey)
		if err := svc.AddToCollection(c.Request.Context(), username, c.Param("id")); err != nil {
			abortCatalogError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func removeFromCollectionHandler(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.GetString(usernameKey)
		if err := svc.RemoveFromCollection(c.Request.Context(), username, c.Param("id")); err != nil {
			abortCatalogError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// respondPage slices the id list at the requested cursor and resolves the
// window into product views.
func respondPage(c *gin.Context, svc *catalog.Service, ids []string) {
	cursor, err := intQuery(c, "cursor", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cursor must be a non-negative integer"})
		return
	}
	perPage, err := intQuery(c, "count", productsPerPage)
	if err != nil || perPage <= 0 || perPage > maxPerPage {
		c.JSON(http.StatusBadRequest, gin.H{"error": "count out of range"})
		return
	}

	window := ids[min(cursor, len(ids)):min(cursor+perPage, len(ids))]
	products, err := svc.ProductsByID(c.Request.Context(), window)
	if err != nil {
		abortCatalogError(c, err)
		return
	}

	resp := pageResponse{
		Products: products,
		Total:    len(ids),
		Cursor:   cursor,
	}
	if cursor > 0 {
		prev := max(cursor-perPage, 0)
		first := 0
		resp.PrevCursor = &prev
		resp.FirstCursor = &first
	}
	if cursor+perPage < len(ids) {
		next := cursor + perPage
		last := perPage * (len(ids) / perPage)
		if len(ids)%perPage == 0 {
			last -= perPage
		}
		resp.NextCursor = &next
		resp.LastCursor = &last
	}
	c.JSON(http.StatusOK, resp)
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.New("invalid integer")
	}
	return v, nil
}

func abortCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrNonExistentProduct), errors.Is(err, catalog.ErrUnknownUser):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
