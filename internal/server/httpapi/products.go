package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/assets"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// maxFormBytes bounds a whole product form: the image plus room for fields.
const maxFormBytes = assets.MaxImageSize + 1<<20

type ProductService interface {
	List(ctx context.Context) ([]*models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, f models.ProductFields, upload *models.Upload) (*models.Product, error)
	Update(ctx context.Context, id string, f models.ProductFields, upload *models.Upload) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

type ProductHandler struct {
	products ProductService
	logger   logging.Logger
}

func NewProductHandler(ps ProductService, l logging.Logger) *ProductHandler {
	return &ProductHandler{products: ps, logger: l}
}

func (h *ProductHandler) List(c *gin.Context) {
	list, err := h.products.List(c.Request.Context())
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Create(c *gin.Context) {
	f, upload, err := readProductForm(c)
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}

	p, err := h.products.Create(c.Request.Context(), f, upload)
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) Update(c *gin.Context) {
	f, upload, err := readProductForm(c)
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}

	p, err := h.products.Update(c.Request.Context(), c.Param("id"), f, upload)
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// productJSON is the JSON shape of a product mutation. JSON bodies carry no
// image.
type productJSON struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
}

// readProductForm extracts the optional fields and the optional "image" file
// from a multipart, urlencoded or JSON body.
func readProductForm(c *gin.Context) (models.ProductFields, *models.Upload, error) {
	var f models.ProductFields

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFormBytes)

	switch ct := c.ContentType(); {
	case ct == binding.MIMEJSON:
		var in productJSON
		if err := c.ShouldBindJSON(&in); err != nil {
			return f, nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
		}
		return models.ProductFields{Name: in.Name, Description: in.Description, Price: in.Price}, nil, nil
	case ct == "", ct == binding.MIMEPOSTForm, strings.HasPrefix(ct, "multipart/"):
	default:
		return f, nil, fmt.Errorf("%w: unsupported content type %q", common.ErrValidation, ct)
	}

	if err := parseForm(c); err != nil {
		return f, nil, err
	}

	if v, ok := c.GetPostForm("name"); ok {
		f.Name = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		f.Description = &v
	}
	if v, ok := c.GetPostForm("price"); ok {
		price, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return f, nil, fmt.Errorf("%w: price must be a number", common.ErrValidation)
		}
		f.Price = &price
	}

	upload, err := readUpload(c)
	if err != nil {
		return f, nil, err
	}
	return f, upload, nil
}

func parseForm(c *gin.Context) error {
	var err error
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		err = c.Request.ParseMultipartForm(maxFormBytes)
	} else {
		err = c.Request.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: request exceeds %d bytes", common.ErrValidation, maxFormBytes)
		}
		return fmt.Errorf("%w: malformed form: %v", common.ErrValidation, err)
	}
	return nil
}

func readUpload(c *gin.Context) (*models.Upload, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: image: %v", common.ErrValidation, err)
	}
	if fh.Size > assets.MaxImageSize {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", common.ErrValidation, assets.MaxImageSize)
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: image: %v", common.ErrValidation, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, assets.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: image: %v", common.ErrValidation, err)
	}

	return &models.Upload{
		Data:        data,
		ContentType: fh.Header.Get("Content-Type"),
		FileName:    fh.Filename,
	}, nil
}
