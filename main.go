// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"crypto/tls"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/JayGriffiths12/piss-up-cup-score/backend"
)

var (
	addr           = flag.String("addr", ":8080", "The TCP address to listen to")
	useMockAuth    = flag.Bool("use-mock-auth", false, "Use Mock Authentication. For testing purposes only.")
	debugMode      = flag.Bool("debug", false, "Enable debug mode")
	dataDir        = flag.String("data-dir", "data", "Directory for match, history and career data")
	tlsCert        = flag.String("tls-cert", "", "Path to HTTP TLS certificate")
	tlsKey         = flag.String("tls-key", "", "Path to HTTP TLS key")
	authCookieName = flag.String("auth-cookie-name", "puc_auth", "Name of the cookie containing the JWT")
	authJWKSURL    = flag.String("auth-jwks-url", "", "URL of the JWKS endpoint used to verify JWTs")
	requireLogin   = flag.Bool("require-login", false, "Only authenticated users may score")
	scorers        = flag.String("scorers", "", "Comma-separated emails allowed to score (implies -require-login)")
	postgresDSN    = flag.String("postgres-dsn", "", "Store documents in Postgres instead of the data directory")
	allowedOrigins = flag.String("allowed-origins", "", "Comma-separated origins allowed by CORS")
)

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// main starts the web server and registers the API handlers.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}
	flag.Parse()

	var cert *tls.Certificate
	if *tlsCert != "" && *tlsKey != "" {
		c, err := tls.LoadX509KeyPair(*tlsCert, *tlsKey)
		if err != nil {
			log.Fatalf("Failed to load TLS cert/key: %v", err)
		}
		cert = &c
	}

	store, masterKey, err := backend.OpenStorage(*dataDir, os.Getenv(backend.MasterKeyEnv))
	if err != nil {
		log.Fatalf("Critical Security Error: %v", err)
	}

	var docs backend.DocumentStore
	if *postgresDSN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		pg, closeDB, err := backend.OpenPGStore(ctx, *postgresDSN)
		cancel()
		if err != nil {
			log.Fatalf("Failed to open Postgres store: %v", err)
		}
		defer closeDB()
		docs = pg
		log.Println("Storing documents in Postgres.")
	}

	server, err := backend.StartServer(backend.Options{
		Addr:           *addr,
		Cert:           cert,
		DataDir:        *dataDir,
		UseMockAuth:    *useMockAuth,
		Debug:          *debugMode,
		Storage:        store,
		MasterKey:      masterKey,
		Documents:      docs,
		AuthCookieName: *authCookieName,
		AuthJWKSURL:    *authJWKSURL,
		RequireLogin:   *requireLogin,
		Scorers:        splitList(*scorers),
		AllowedOrigins: splitList(*allowedOrigins),
	})
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	// Wait for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	} else {
		log.Println("Gracefully stopped.")
	}
}
