//go:build ignore

package main

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// generateSampleCatalog writes gzipped CSV catalog files for POST /products/import.
// sample_catalog.csv.gz is well formed. broken_catalog.csv.gz has a bad
// price on line 3 and is rejected as a whole.
func main() {
	dataDir := "data/catalog"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	catalogs := map[string][][]string{
		"sample_catalog.csv.gz": {
			{"product_name", "price", "quantity", "image_url"},
			{"ข้าวหอมมะลิ 5kg", "185.00", "40", "https://cdn.example.com/rice.jpg"},
			{"น้ำปลาแท้", "32.50", "120", "https://cdn.example.com/fish-sauce.jpg"},
			{"ไข่ไก่ เบอร์ 2 (10 ฟอง)", "55.00", "60", ""},
			{"น้ำมันพืช 1 ลิตร", "49.00", "80"},
			{"กาแฟดริปคั่วกลาง", "250.00", "15", "https://cdn.example.com/coffee.jpg"},
		},
		"broken_catalog.csv.gz": {
			{"product_name", "price", "quantity"},
			{"น้ำตาลทราย 1kg", "28.00", "100"},
			{"เกลือป่น", "not-a-price", "30"},
		},
	}

	for filename, records := range catalogs {
		filePath := filepath.Join(dataDir, filename)

		if err := createCatalogFile(filePath, records); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d products\n", filePath, len(records)-1)
	}

	fmt.Println("\nImport with:")
	fmt.Println(`  curl -X POST localhost:20651/products/import -H "X-API-Key: $API_KEY" -d '{"path":"data/catalog/sample_catalog.csv.gz"}'`)
}

func createCatalogFile(filePath string, records [][]string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	w := csv.NewWriter(gzipWriter)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}

	return nil
}
