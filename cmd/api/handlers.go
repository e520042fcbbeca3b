package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"listify-shopee-layer/internal/application"
	"listify-shopee-layer/internal/domain"
	"listify-shopee-layer/internal/infrastructure/shopee"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const sessionCookie = "shopee_sid"

// maxUploadBytes caps a single multipart upload request.
const maxUploadBytes = 32 << 20

// oauthInitHandler redirects the merchant to the partner authorization page.
func oauthInitHandler(authService *application.AuthService, appURL string, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		redirectURL := appURL + "/auth/shopee/callback"
		logger.Debug().Str("redirect", redirectURL).Msg("Starting shop authorization")
		http.Redirect(w, r, authService.BeginAuthURL(redirectURL), http.StatusFound)
	}
}

// oauthCallbackHandler exchanges the code the marketplace redirected back
// with and stores the resulting shop session.
func oauthCallbackHandler(authService *application.AuthService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		code := r.URL.Query().Get("code")
		shopIDStr := r.URL.Query().Get("shop_id")
		if code == "" || shopIDStr == "" {
			http.Redirect(w, r, "/?error=missing_params", http.StatusFound)
			return
		}
		shopID, err := strconv.ParseInt(shopIDStr, 10, 64)
		if err != nil {
			http.Redirect(w, r, "/?error=missing_params", http.StatusFound)
			return
		}

		sid, err := authService.CompleteAuth(ctx, code, shopID)
		if err != nil {
			logger.Error().Err(err).Msg("OAuth callback error")
			http.Redirect(w, r, "/?error=auth_failed", http.StatusFound)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sid,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int((30 * 24 * time.Hour).Seconds()),
		})
		http.Redirect(w, r, "/?auth=success", http.StatusFound)
	}
}

func logoutHandler(authService *application.AuthService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(sessionCookie); err == nil {
			if err := authService.Logout(r.Context(), c.Value); err != nil {
				logger.Error().Err(err).Msg("Failed to drop session")
			}
		}
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// uploadHandler stores the posted product photos locally.
func uploadHandler(listings *application.ListingService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respondError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		headers := r.MultipartForm.File["images"]
		if len(headers) == 0 {
			respondError(w, http.StatusBadRequest, "No files uploaded")
			return
		}

		files := make([]application.NamedFile, 0, len(headers))
		for _, h := range headers {
			f, err := h.Open()
			if err != nil {
				respondError(w, http.StatusBadRequest, "failed to read uploaded file")
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				respondError(w, http.StatusBadRequest, "failed to read uploaded file")
				return
			}
			files = append(files, application.NamedFile{Name: h.Filename, Data: data})
		}

		stored, err := listings.StoreImages(r.Context(), files)
		if err != nil {
			logger.Error().Err(err).Msg("Upload error")
			respondError(w, http.StatusInternalServerError, "Failed to upload files")
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"files":   stored,
		})
	}
}

// generateHandler produces AI listing copy for already-uploaded images.
func generateHandler(listings *application.ListingService, logger zerolog.Logger) http.HandlerFunc {
	type request struct {
		ImageIDs []string `json:"image_ids"`
		Category string   `json:"category"`
		Keywords []string `json:"keywords"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.ImageIDs) == 0 {
			respondError(w, http.StatusBadRequest, "No images provided")
			return
		}

		content, err := listings.GenerateContent(r.Context(), req.ImageIDs, domain.DescribeHints{
			Category: req.Category,
			Keywords: req.Keywords,
		})
		if err != nil {
			logger.Error().Err(err).Msg("AI generation error")
			respondError(w, http.StatusInternalServerError, "Failed to generate description")
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    content,
		})
	}
}

// createProductHandler publishes a listing for the authenticated shop.
func createProductHandler(listings *application.ListingService, authService *application.AuthService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, authService, logger)
		if !ok {
			return
		}

		var in application.PublishInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := listings.Publish(r.Context(), *sess, in)
		if err != nil {
			status := http.StatusInternalServerError
			var apiErr *shopee.APIError
			if errors.As(err, &apiErr) && apiErr.Phase == shopee.PhaseApplication {
				status = http.StatusBadGateway
			}
			logger.Error().Err(err).Msg("Product creation error")
			respondJSON(w, status, map[string]any{
				"error":   "Failed to create product",
				"details": err.Error(),
			})
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    result,
		})
	}
}

func categoriesHandler(listings *application.ListingService, authService *application.AuthService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, authService, logger)
		if !ok {
			return
		}
		language := r.URL.Query().Get("language")
		if language == "" {
			language = "zh-hant"
		}
		categories, err := listings.Categories(r.Context(), *sess, language)
		if err != nil {
			logger.Error().Err(err).Msg("Category lookup error")
			respondError(w, http.StatusBadGateway, "Failed to fetch categories")
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    categories,
		})
	}
}

func attributesHandler(listings *application.ListingService, authService *application.AuthService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, authService, logger)
		if !ok {
			return
		}
		categoryID, err := strconv.ParseInt(chi.URLParam(r, "categoryID"), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid category id")
			return
		}
		attrs, err := listings.CategoryAttributes(r.Context(), *sess, categoryID)
		if err != nil {
			logger.Error().Err(err).Msg("Attribute lookup error")
			respondError(w, http.StatusBadGateway, "Failed to fetch attributes")
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    attrs,
		})
	}
}

// requireSession resolves the caller's shop session from the sid cookie,
// refreshing a near-expiry token along the way.
func requireSession(w http.ResponseWriter, r *http.Request, authService *application.AuthService, logger zerolog.Logger) (*domain.ShopSession, bool) {
	var sid string
	if c, err := r.Cookie(sessionCookie); err == nil {
		sid = c.Value
	}
	sess, err := authService.Session(r.Context(), sid)
	if err != nil {
		if errors.Is(err, application.ErrNotAuthenticated) {
			respondError(w, http.StatusUnauthorized, "Not authenticated. Please authorize with Shopee first.")
			return nil, false
		}
		var authErr *shopee.AuthError
		if errors.As(err, &authErr) {
			respondError(w, http.StatusUnauthorized, "Session expired. Please authorize with Shopee again.")
			return nil, false
		}
		logger.Error().Err(err).Msg("Session lookup error")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}
	return sess, true
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
