package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/Jbmanllr/rental-catalog/config"
	"github.com/Jbmanllr/rental-catalog/internal/app/model"
	"github.com/Jbmanllr/rental-catalog/internal/app/repository"
	"github.com/Jbmanllr/rental-catalog/internal/db"
	"github.com/Jbmanllr/rental-catalog/pkg/util"
	"github.com/xuri/excelize/v2"
)

// Expected sheet columns:
//
//	0 title | 1 handle (optional) | 2 description | 3 type | 4 tags
//	(comma-separated) | 5 currency code | 6 amount (smallest unit) | 7 sku
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	if err := db.Seed(); err != nil {
		log.Fatal("Failed to seed base data:", err)
	}

	rentalRepo := repository.NewRentalRepository(db.GetDB())
	tagRepo := repository.NewTagRepository(db.GetDB())
	typeRepo := repository.NewTypeRepository(db.GetDB())
	profileRepo := repository.NewShippingProfileRepository(db.GetDB())

	profile, err := profileRepo.FindDefault()
	if err != nil {
		log.Fatal("Failed to load default shipping profile:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rentals, skipped, err := readRentalsFromXLSX(filePath, tagRepo, typeRepo, profile.ID)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total rentals to import: %d (skipped %d rows)\n", len(rentals), skipped)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := rentalRepo.BulkCreate(rentals, batchSize); err != nil {
		log.Fatal("Failed to bulk create rentals:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total rentals imported: %d\n", len(rentals))
}

func readRentalsFromXLSX(filePath string, tagRepo repository.TagRepository, typeRepo repository.TypeRepository, profileID uint) ([]model.Rental, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var rentals []model.Rental
	seenHandles := make(map[string]bool)
	skipped := 0

	for i, row := range rows {
		// Header row
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		title := cell(row, 0)
		if title == "" {
			skipped++
			continue
		}

		handle := cell(row, 1)
		if handle == "" {
			handle = util.ToHandle(title)
		}
		if handle == "" || seenHandles[handle] {
			skipped++
			continue
		}
		seenHandles[handle] = true

		currencyCode := strings.ToLower(cell(row, 5))
		amount, err := strconv.ParseInt(cell(row, 6), 10, 64)
		if currencyCode == "" || err != nil || amount < 0 {
			skipped++
			continue
		}

		rental := model.Rental{
			Title:        title,
			Handle:       handle,
			Description:  cell(row, 2),
			Status:       model.RentalStatusDraft,
			Discountable: true,
			ProfileID:    &profileID,
		}

		if typeValue := cell(row, 3); typeValue != "" {
			rentalType, err := typeRepo.UpsertByValue(typeValue)
			if err != nil {
				return nil, skipped, fmt.Errorf("failed to upsert type %q: %w", typeValue, err)
			}
			rental.TypeID = &rentalType.ID
		}

		if tagValues := splitTags(cell(row, 4)); len(tagValues) > 0 {
			tags, err := tagRepo.UpsertByValues(tagValues)
			if err != nil {
				return nil, skipped, fmt.Errorf("failed to upsert tags: %w", err)
			}
			rental.Tags = tags
		}

		variant := model.RentalVariant{
			Title: "Default",
			Prices: []model.MoneyAmount{
				{CurrencyCode: currencyCode, Amount: amount},
			},
		}
		if sku := cell(row, 7); sku != "" {
			variant.SKU = &sku
		}
		rental.Variants = []model.RentalVariant{variant}

		rentals = append(rentals, rental)
	}

	return rentals, skipped, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
