package handlers

import (
	"errors"
	"net/http"

	"github.com/ateliermarket/boutique/internal/models"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// DirectoryHandler serves the reference-data entities: suppliers, designers
// and categories. Plain CRUD, admin-gated on mutation.
type DirectoryHandler struct {
	DB *gorm.DB
}

func (h *DirectoryHandler) list(c echo.Context, action string, dest interface{}) error {
	if err := h.DB.Order("id ASC").Find(dest).Error; err != nil {
		return serviceError(c, action, err)
	}
	return c.JSON(http.StatusOK, dest)
}

func (h *DirectoryHandler) get(c echo.Context, action string, dest interface{}) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.DB.First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "not found")
		}
		return serviceError(c, action, err)
	}
	return c.JSON(http.StatusOK, dest)
}

func (h *DirectoryHandler) create(c echo.Context, action string, dest interface{}) error {
	if err := c.Bind(dest); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.DB.Create(dest).Error; err != nil {
		return serviceError(c, action, err)
	}
	return c.JSON(http.StatusCreated, dest)
}

func (h *DirectoryHandler) update(c echo.Context, action string, dest interface{}) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.DB.First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "not found")
		}
		return serviceError(c, action, err)
	}
	if err := c.Bind(dest); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.DB.Save(dest).Error; err != nil {
		return serviceError(c, action, err)
	}
	return c.JSON(http.StatusOK, dest)
}

func (h *DirectoryHandler) remove(c echo.Context, action string, model interface{}) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.DB.Delete(model, id).Error; err != nil {
		return serviceError(c, action, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DirectoryHandler) ListSuppliers(c echo.Context) error {
	return h.list(c, "supplier.list", &[]models.Supplier{})
}
func (h *DirectoryHandler) GetSupplier(c echo.Context) error {
	return h.get(c, "supplier.get", &models.Supplier{})
}
func (h *DirectoryHandler) CreateSupplier(c echo.Context) error {
	return h.create(c, "supplier.create", &models.Supplier{})
}
func (h *DirectoryHandler) UpdateSupplier(c echo.Context) error {
	return h.update(c, "supplier.update", &models.Supplier{})
}
func (h *DirectoryHandler) DeleteSupplier(c echo.Context) error {
	return h.remove(c, "supplier.delete", &models.Supplier{})
}

func (h *DirectoryHandler) ListDesigners(c echo.Context) error {
	return h.list(c, "designer.list", &[]models.Designer{})
}
func (h *DirectoryHandler) GetDesigner(c echo.Context) error {
	return h.get(c, "designer.get", &models.Designer{})
}
func (h *DirectoryHandler) CreateDesigner(c echo.Context) error {
	return h.create(c, "designer.create", &models.Designer{})
}
func (h *DirectoryHandler) UpdateDesigner(c echo.Context) error {
	return h.update(c, "designer.update", &models.Designer{})
}
func (h *DirectoryHandler) DeleteDesigner(c echo.Context) error {
	return h.remove(c, "designer.delete", &models.Designer{})
}

func (h *DirectoryHandler) ListCategories(c echo.Context) error {
	return h.list(c, "category.list", &[]models.Category{})
}
func (h *DirectoryHandler) GetCategory(c echo.Context) error {
	return h.get(c, "category.get", &models.Category{})
}
func (h *DirectoryHandler) CreateCategory(c echo.Context) error {
	return h.create(c, "category.create", &models.Category{})
}
func (h *DirectoryHandler) UpdateCategory(c echo.Context) error {
	return h.update(c, "category.update", &models.Category{})
}
func (h *DirectoryHandler) DeleteCategory(c echo.Context) error {
	return h.remove(c, "category.delete", &models.Category{})
}
