package main

import (
	"context"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), opts)
		},
	}
}

func serve(ctx context.Context, opts *options) error {
	cfg := opts.cfg
	a, err := newApp(cfg, nil)
	if err != nil {
		return errorf("Could not set up the deck", err)
	}
	defer a.Close()

	if a.serial != nil && cfg.Serial.Port != "" {
		err = a.connect(ctx, cfg.Serial.Port)
		if err != nil {
			// the port can still be chosen through the API
			log.Println("ERROR: connect:", err)
		}
	}

	srv := newAPI(a, cfg.Server.DataDir)
	log.Println("Listening on", cfg.Server.Addr)
	err = http.ListenAndServe(cfg.Server.Addr, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		log.Printf("%s %s - %s", req.Method, req.URL.Path, req.RemoteAddr)
		srv.ServeHTTP(w, req)
	}))
	if err != nil {
		return errorf("Server stopped", err)
	}
	return nil
}
