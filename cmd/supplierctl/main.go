// Command supplierctl onboards suppliers.  Supplier accounts are created
// out-of-band by procurement staff, never through the booking API, so
// this small CLI is the only writer of the suppliers table.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/DAREDEVILDD7/trolley-appointment/internal/config"
	"github.com/DAREDEVILDD7/trolley-appointment/internal/database"
	"github.com/DAREDEVILDD7/trolley-appointment/internal/model"
	"github.com/DAREDEVILDD7/trolley-appointment/internal/repository"
	"github.com/DAREDEVILDD7/trolley-appointment/internal/utils"
)

func main() {
	_ = godotenv.Load()

	var (
		id      = flag.String("id", "", "supplier identifier (required)")
		name    = flag.String("name", "", "contact display name (required)")
		company = flag.String("company", "", "supplier company name (required)")
		secret  = flag.String("secret", "", "credential secret (required)")
	)
	flag.Parse()
	if *id == "" || *name == "" || *company == "" || *secret == "" {
		flag.Usage()
		log.Fatal("all of -id, -name, -company and -secret are required")
	}

	cfg := config.Load()
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	hash, err := utils.HashSecret(*secret, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("hash secret: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	suppliers := repository.NewSupplierRepo(db)
	if err := suppliers.Create(ctx, model.Supplier{
		ID:          *id,
		Name:        *name,
		CompanyName: *company,
		SecretHash:  hash,
		IsActive:    true,
	}); err != nil {
		log.Fatalf("create supplier: %v", err)
	}
	log.Printf("supplier %s created", *id)
}
