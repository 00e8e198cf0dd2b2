package http

import (
	"net/http"
	"strconv"
)

// maxBodyBytes caps request bodies at 1 MiB. No endpoint accepts uploads.
const maxBodyBytes = 1 << 20

// parsePagination reads ?page and ?per_page query parameters. Missing or
// malformed values fall back to the first page of twenty so the response
// envelope always reports the page actually served.
func parsePagination(r *http.Request) (page, perPage int) {
	if v := r.URL.Query().Get("page"); v != "" {
		page, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		perPage, _ = strconv.Atoi(v)
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}

func limitBody(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
}
