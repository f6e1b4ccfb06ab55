package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/parkview/rental-system/internal/core/domain"
	"github.com/parkview/rental-system/internal/core/ports"
)

// RentalHandler serves apartment listings.
type RentalHandler struct {
	service       ports.ApartmentService
	publicBaseURL string
}

// NewRentalHandler builds the handler. Relative image paths are prefixed with
// publicBaseURL, or with the request's scheme and host when it is empty.
func NewRentalHandler(service ports.ApartmentService, publicBaseURL string) *RentalHandler {
	return &RentalHandler{service: service, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

type createApartmentRequest struct {
	Address     string   `json:"address" validate:"required"`
	Bedrooms    int      `json:"bedrooms" validate:"gte=0"`
	Bathrooms   float64  `json:"bathrooms" validate:"gte=0"`
	Price       float64  `json:"price" validate:"gt=0"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

// List returns vacant apartments matching the optional inclusive thresholds.
//
// @Summary      List available rentals
// @Tags         rentals
// @Produce      json
// @Param        min_price  query     number  false  "Minimum monthly price"
// @Param        max_price  query     number  false  "Maximum monthly price"
// @Param        min_beds   query     int     false  "Minimum bedrooms"
// @Param        min_baths  query     number  false  "Minimum bathrooms"
// @Success      200        {array}   domain.Apartment
// @Failure      400        {object}  map[string]string
// @Router       /rentals [get]
func (h *RentalHandler) List(c echo.Context) error {
	var (
		filter domain.ApartmentFilter
		err    error
	)
	if filter.MinPrice, err = queryFloat(c, "min_price"); err != nil {
		return err
	}
	if filter.MaxPrice, err = queryFloat(c, "max_price"); err != nil {
		return err
	}
	if filter.MinBeds, err = queryInt(c, "min_beds"); err != nil {
		return err
	}
	if filter.MinBaths, err = queryFloat(c, "min_baths"); err != nil {
		return err
	}

	apartments, err := h.service.ListAvailable(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.withImageURLs(c, apartments))
}

// Get returns one apartment with its full image list.
//
// @Summary      Rental detail
// @Tags         rentals
// @Produce      json
// @Param        id   path      int  true  "Apartment ID"
// @Success      200  {object}  domain.Apartment
// @Failure      404  {object}  map[string]string
// @Router       /rentals/{id} [get]
func (h *RentalHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	apt, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.withImageURLs(c, []*domain.Apartment{apt})[0])
}

// AdminList returns every apartment, occupied or not.
//
// @Summary      List all rentals
// @Tags         admin
// @Produce      json
// @Success      200  {array}  domain.Apartment
// @Router       /admin/rentals [get]
func (h *RentalHandler) AdminList(c echo.Context) error {
	apartments, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.withImageURLs(c, apartments))
}

// AdminCreate adds a vacant apartment.
//
// @Summary      Create rental
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      createApartmentRequest  true  "Apartment"
// @Success      201   {object}  domain.Apartment
// @Failure      400   {object}  map[string]string
// @Router       /admin/rentals [post]
func (h *RentalHandler) AdminCreate(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req createApartmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	apt, err := h.service.Create(c.Request().Context(), ports.CreateApartmentInput{
		Address:     req.Address,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Price:       req.Price,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Description: req.Description,
		Images:      req.Images,
		Actor:       actorOf(id),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.withImageURLs(c, []*domain.Apartment{apt})[0])
}

// withImageURLs returns copies of apartments whose image paths are absolute URLs.
func (h *RentalHandler) withImageURLs(c echo.Context, apartments []*domain.Apartment) []*domain.Apartment {
	base := h.publicBaseURL
	if base == "" {
		base = c.Scheme() + "://" + c.Request().Host
	}

	out := make([]*domain.Apartment, 0, len(apartments))
	for _, apt := range apartments {
		cp := *apt
		cp.Images = make([]string, 0, len(apt.Images))
		for _, img := range apt.Images {
			cp.Images = append(cp.Images, absoluteURL(base, img))
		}
		out = append(out, &cp)
	}
	return out
}

func absoluteURL(base, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return base + "/" + strings.TrimLeft(path, "/")
}
