package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the business store over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newServeMux(st),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func newServeMux(st store.Store) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /businesses", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("limit"))
		offset, _ := strconv.Atoi(q.Get("offset"))
		// The store returns everything at limit 0; page the HTTP surface.
		if limit <= 0 {
			limit = 100
		}

		businesses, err := st.ListBusinesses(r.Context(), store.ListOpts{
			Source: q.Get("source"),
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			zap.L().Error("list businesses failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list failed"})
			return
		}
		writeJSON(w, http.StatusOK, businesses)
	})

	mux.HandleFunc("GET /businesses/{id}", func(w http.ResponseWriter, r *http.Request) {
		b, err := st.GetBusiness(r.Context(), r.PathValue("id"))
		if err != nil {
			status, msg := http.StatusInternalServerError, "lookup failed"
			if eris.Is(err, store.ErrBusinessNotFound) {
				status, msg = http.StatusNotFound, "business not found"
			}
			writeJSON(w, status, map[string]string{"error": msg})
			return
		}
		writeJSON(w, http.StatusOK, b)
	})

	mux.HandleFunc("GET /businesses/{id}/best", func(w http.ResponseWriter, r *http.Request) {
		field := r.URL.Query().Get("field")
		if field == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "field is required"})
			return
		}
		obs, err := st.BestValueFor(r.Context(), r.PathValue("id"), field)
		if err != nil {
			if eris.Is(err, store.ErrNoObservation) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "no observation"})
				return
			}
			zap.L().Error("best value lookup failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "lookup failed"})
			return
		}
		writeJSON(w, http.StatusOK, obs)
	})

	mux.HandleFunc("GET /businesses/{id}/observations", func(w http.ResponseWriter, r *http.Request) {
		obs, err := st.ObservationsFor(r.Context(), r.PathValue("id"))
		if err != nil {
			zap.L().Error("observations lookup failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "lookup failed"})
			return
		}
		if obs == nil {
			obs = []model.Observation{}
		}
		writeJSON(w, http.StatusOK, obs)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
