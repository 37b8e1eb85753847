// Command gencoupons writes small sample coupon codebooks for local
// development. A code is accepted by the validator when it appears in at
// least two of the three books.
package main

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

func main() {
	dataDir := "data/coupons"

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	// SOLOCODE1 and SOLOCODE5 appear in one book each and stay invalid.
	books := map[string][]string{
		"couponbase1.gz": {"SOLOCODE1", "PAIR12AB", "TRIO123AB", "SAVE10NOW"},
		"couponbase2.gz": {"PAIR12AB", "TRIO123AB", "SAVE10NOW", "FREESHIP9"},
		"couponbase3.gz": {"TRIO123AB", "FREESHIP9", "SOLOCODE5"},
	}

	for name, codes := range books {
		path := filepath.Join(dataDir, name)
		if err := writeCodebook(path, codes); err != nil {
			log.Fatalf("Failed to write %s: %v", path, err)
		}
		fmt.Printf("Wrote %s (%d codes)\n", path, len(codes))
	}

	fmt.Println("\nValid codes (in at least 2 books): PAIR12AB, TRIO123AB, SAVE10NOW, FREESHIP9")
	fmt.Println("Invalid codes (in only 1 book): SOLOCODE1, SOLOCODE5")
}

func writeCodebook(path string, codes []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	for _, code := range codes {
		if _, err := fmt.Fprintln(gz, code); err != nil {
			return err
		}
	}
	return gz.Close()
}
