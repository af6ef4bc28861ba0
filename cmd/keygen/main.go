package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"severkey-server/internal/entity"
)

func main() {
	fmt.Println("========================================")
	fmt.Println(" SeverKey License Key Tool")
	fmt.Println("========================================")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Println("\nOptions:")
		fmt.Println("  1. Generate single license key")
		fmt.Println("  2. Generate batch license keys")
		fmt.Println("  3. Check key format")
		fmt.Println("  4. Exit")
		fmt.Print("\nSelect option: ")

		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)

		switch input {
		case "1":
			generateSingleKey()
		case "2":
			generateBatchKeys(reader)
		case "3":
			checkKey(reader)
		case "4":
			fmt.Println("Goodbye!")
			os.Exit(0)
		default:
			fmt.Println("Invalid option")
		}
	}
}

func generateSingleKey() {
	key := entity.GenerateKey()

	fmt.Println("\n========================================")
	fmt.Printf("  License Key:  %s\n", key)
	fmt.Printf("  Generated:    %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Println("========================================")
}

func generateBatchKeys(reader *bufio.Reader) {
	fmt.Print("\nHow many keys? ")
	input, _ := reader.ReadString('\n')
	count, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || count < 1 {
		fmt.Println("Invalid count")
		return
	}
	if count > 1000 {
		fmt.Println("Capped at 1000 keys per batch")
		count = 1000
	}

	keys := make([]string, 0, count)
	for i := 0; i < count; i++ {
		keys = append(keys, entity.GenerateKey())
	}

	fmt.Println()
	for _, key := range keys {
		fmt.Println(key)
	}

	fmt.Print("\nSave to file? (y/n): ")
	save, _ := reader.ReadString('\n')
	if strings.TrimSpace(strings.ToLower(save)) == "y" {
		filename := fmt.Sprintf("license_keys_%s.txt", time.Now().Format("20060102_150405"))
		content := strings.Join(keys, "\n") + "\n"
		if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
			fmt.Printf("Failed to save: %v\n", err)
			return
		}
		fmt.Printf("Saved to %s\n", filename)
	}
}

func checkKey(reader *bufio.Reader) {
	fmt.Print("\nEnter key: ")
	input, _ := reader.ReadString('\n')
	key := strings.TrimSpace(input)

	if entity.KeyPattern.MatchString(key) {
		fmt.Println("Key format is valid")
	} else {
		fmt.Println("Key format is INVALID (expected SK- followed by 32 uppercase hex characters)")
	}
}
