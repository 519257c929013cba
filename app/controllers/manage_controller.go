package controllers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ibrahimdesign/atelier/app/services"
	"github.com/ibrahimdesign/atelier/pkg/imagestore"
	"github.com/ibrahimdesign/atelier/pkg/middleware"
	"github.com/ibrahimdesign/atelier/pkg/response"
)

const maxUploadBytes = 32 << 20 // 32 MB across all parts

// ManageController serves the role-gated catalog mutation surface.
type ManageController struct {
	products *services.ProductService
	roles    *services.RoleService
}

func NewManageController(products *services.ProductService, roles *services.RoleService) *ManageController {
	return &ManageController{products: products, roles: roles}
}

func (c *ManageController) grant(r *http.Request) (services.Grant, bool) {
	p := middleware.PrincipalFromCtx(r.Context())
	if p == nil {
		return services.Grant{}, false
	}
	return c.roles.Resolve(r.Context(), p.UserID), true
}

// urlList accepts either a JSON array of URLs or a comma-separated string.
// Storefront clients send both shapes.
func urlList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var urls []string
	if err := json.Unmarshal([]byte(raw), &urls); err == nil {
		return urls
	}

	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			urls = append(urls, p)
		}
	}
	return urls
}

// openUploads wraps the multipart file headers as image store files. The
// returned closer must run after the service call.
func openUploads(headers []*multipart.FileHeader) ([]imagestore.File, func(), error) {
	files := make([]imagestore.File, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))

	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		opened = append(opened, f)
		files = append(files, imagestore.File{Name: h.Filename, Reader: f})
	}
	return files, closeAll, nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// Create handles POST /api/shop-products/manage/create. Accepts multipart
// (files under "images", optional "image" URL field) or a plain JSON body.
func (c *ManageController) Create(w http.ResponseWriter, r *http.Request) {
	grant, ok := c.grant(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in services.CreateInput
	var cleanup func()

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid multipart body")
			return
		}

		in.Name = r.FormValue("name")
		in.Description = r.FormValue("description")
		in.Category = r.FormValue("category")
		in.ImageURLs = urlList(r.FormValue("image"))

		if raw := r.FormValue("price"); raw != "" {
			price, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				respondErr(w, r, services.NewValidationError("price", "must be a number"))
				return
			}
			in.Price = price
		}
		if raw := r.FormValue("offerPrice"); raw != "" {
			offer, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				respondErr(w, r, services.NewValidationError("offerPrice", "must be a number"))
				return
			}
			in.OfferPrice = &offer
		}

		uploads, closeAll, err := openUploads(r.MultipartForm.File["images"])
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Could not read uploaded files")
			return
		}
		in.Uploads = uploads
		cleanup = closeAll
	} else {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
	}

	if cleanup != nil {
		defer cleanup()
	}

	p, err := c.products.Create(r.Context(), grant, in)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	response.Created(w, "product", p)
}

// Update handles PATCH /api/shop-products/manage/{id}. Multipart bodies may
// carry new files plus an "existingImages" field listing retained URLs.
func (c *ManageController) Update(w http.ResponseWriter, r *http.Request) {
	grant, ok := c.grant(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	id := chi.URLParam(r, "id")

	var in services.UpdateInput
	var cleanup func()

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid multipart body")
			return
		}

		if v := r.FormValue("name"); v != "" {
			in.Name = &v
		}
		if v := r.FormValue("description"); v != "" {
			in.Description = &v
		}
		if v := r.FormValue("category"); v != "" {
			in.Category = &v
		}
		if raw := r.FormValue("price"); raw != "" {
			price, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				respondErr(w, r, services.NewValidationError("price", "must be a number"))
				return
			}
			in.Price = &price
		}
		if raw := r.FormValue("offerPrice"); raw != "" {
			offer, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				respondErr(w, r, services.NewValidationError("offerPrice", "must be a number"))
				return
			}
			in.OfferPrice = &offer
		}
		if raw := r.FormValue("isPublic"); raw != "" {
			public := raw == "true" || raw == "1"
			in.IsPublic = &public
		}
		if _, present := r.MultipartForm.Value["existingImages"]; present {
			urls := urlList(r.FormValue("existingImages"))
			if urls == nil {
				urls = []string{}
			}
			in.ExistingImages = urls
		}

		uploads, closeAll, err := openUploads(r.MultipartForm.File["images"])
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Could not read uploaded files")
			return
		}
		in.Uploads = uploads
		cleanup = closeAll
	} else {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
	}

	if cleanup != nil {
		defer cleanup()
	}

	p, err := c.products.Update(r.Context(), grant, id, in)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	response.Data(w, "product", p)
}

// Delete handles DELETE /api/shop-products/manage/{id}.
func (c *ManageController) Delete(w http.ResponseWriter, r *http.Request) {
	grant, ok := c.grant(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	name, err := c.products.Delete(r.Context(), grant, chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}

	response.Message(w, name+" deleted")
}
