package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/retailer_portal/internal/service"
	"github.com/Skotchmaster/retailer_portal/internal/sheets"
	"github.com/Skotchmaster/retailer_portal/internal/transport"
	"github.com/Skotchmaster/retailer_portal/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list")

	cat, err := h.Svc.List(ctx, c.QueryParam("search"), c.QueryParam("category"))
	if err != nil {
		status, he := httpError(err, "cannot load products")
		l.Error("list_products_error", "status", status, "error", err)
		return he
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CatalogHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get")

	p, err := h.Svc.Get(ctx, c.Param("id"))
	if err != nil {
		status, he := httpError(err, "cannot load product")
		l.Warn("get_product_error", "status", status, "error", err)
		return he
	}
	return c.JSON(http.StatusOK, p)
}

// Import accepts a Products workbook in the multipart field "file".
func (h *CatalogHTTP) Import(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.import")

	fh, err := c.FormFile("file")
	if err != nil {
		l.Warn("import_error", "status", 400, "reason", "missing file", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		l.Error("import_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read upload")
	}
	defer f.Close()

	items, err := sheets.ReadProducts(f)
	if err != nil {
		l.Warn("import_error", "status", 400, "reason", "bad workbook", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid workbook: "+err.Error())
	}

	n, err := h.Svc.Import(ctx, items)
	if err != nil {
		status, he := httpError(err, "import failed")
		l.Warn("import_error", "status", status, "error", err)
		return he
	}
	return c.JSON(http.StatusOK, transport.ImportResponse{Imported: n})
}

// ImportSuggestions replaces the assistant suggestion set from an uploaded workbook.
func (h *CatalogHTTP) ImportSuggestions(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.import_suggestions")

	fh, err := c.FormFile("file")
	if err != nil {
		l.Warn("import_suggestions_error", "status", 400, "reason", "missing file", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		l.Error("import_suggestions_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read upload")
	}
	defer f.Close()

	rows, err := sheets.ReadSuggestions(f)
	if err != nil {
		l.Warn("import_suggestions_error", "status", 400, "reason", "bad workbook", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid workbook: "+err.Error())
	}
	if err := h.Svc.ImportSuggestions(ctx, rows); err != nil {
		status, he := httpError(err, "import failed")
		l.Warn("import_suggestions_error", "status", status, "error", err)
		return he
	}
	return c.JSON(http.StatusOK, transport.ImportResponse{Imported: len(rows)})
}
