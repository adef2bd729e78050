package httpserver

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/clicon/internal/common"
	"github.com/dmitrijs2005/clicon/internal/server/models"
	"github.com/dmitrijs2005/clicon/internal/server/services"
	"github.com/gorilla/mux"
)

const (
	imagesField = "images"
	// multipart parts beyond this are spooled to disk
	multipartMemory = 8 << 20
)

func (h *Handlers) createProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := decodeJSON(r, &p); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.products.Create(r.Context(), p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) uploadProductImage(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeFail(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeFail(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[imagesField]
	uploads := make([]services.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			h.fail(w, r, err)
			return
		}
		defer f.Close()
		uploads = append(uploads, toUpload(fh, f))
	}

	p, err := h.products.UploadImage(r.Context(), mux.Vars(r)["id"], uploads)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeFail(w, http.StatusNotFound, "Product not found")
			return
		}
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func toUpload(fh *multipart.FileHeader, f multipart.File) services.Upload {
	return services.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}
}

func (h *Handlers) listProducts(w http.ResponseWriter, r *http.Request) {
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeFail(w, http.StatusBadRequest, "invalid page")
			return
		}
		page = n
	}

	list, err := h.products.List(r.Context(), page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handlers) filterProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.products.Filter(r.Context(), models.ProductFilter{
		Title:    q.Get("title"),
		Brand:    q.Get("brand"),
		Category: q.Get("category"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
