package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sunvolt/fieldopsgo/internal/config"
	"github.com/sunvolt/fieldopsgo/internal/database"
	"github.com/sunvolt/fieldopsgo/internal/models"
	"github.com/sunvolt/fieldopsgo/internal/utils"
)

func main() {
	fmt.Println("🌱 FieldOps Demo Data Seeder")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()
	fmt.Println("✅ Connected to database")

	fmt.Println("🔨 Running database migrations...")
	err = db.AutoMigrate(
		&models.UserAuth{},
		&models.FieldRecord{},
		&models.StockItem{},
		&models.StockMovement{},
		&models.PurchaseRequest{},
		&models.SalesQuote{},
	)
	if err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	var itemCount int64
	db.Model(&models.StockItem{}).Count(&itemCount)
	if itemCount > 0 {
		fmt.Printf("⚠️  Database already has %d stock items. Clear it first? (y/N): ", itemCount)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("❌ Aborted. Database not modified.")
			return
		}
		db.Exec("DELETE FROM stock_movements")
		db.Exec("DELETE FROM purchase_requests")
		db.Exec("DELETE FROM field_records")
		db.Exec("DELETE FROM sales_quotes")
		db.Exec("DELETE FROM stock_items")
	}

	// Demo technician
	hash, _ := utils.HashPassword("demo1234")
	tech := models.UserAuth{
		Username: "rvega",
		Email:    "rvega@example.com",
		Password: hash,
		Name:     "R. Vega",
		Role:     "technician",
	}
	db.Where(models.UserAuth{Email: tech.Email}).FirstOrCreate(&tech)

	// Solar material catalog
	items := []models.StockItem{
		{ID: uuid.New().String(), Name: "Solar Panel 450W", Unit: "pcs", Quantity: 120, MinQuantity: 20, AveragePrice: 145.00},
		{ID: uuid.New().String(), Name: "Inverter 5kW", Unit: "pcs", Quantity: 14, MinQuantity: 4, AveragePrice: 980.00},
		{ID: uuid.New().String(), Name: "Power Optimizer", Unit: "pcs", Quantity: 60, MinQuantity: 10, AveragePrice: 52.50},
		{ID: uuid.New().String(), Name: "Solar Cable 6mm", Unit: "m", Quantity: 800, MinQuantity: 100, AveragePrice: 1.20},
		{ID: uuid.New().String(), Name: "Mounting Rail 2.1m", Unit: "pcs", Quantity: 200, MinQuantity: 40, AveragePrice: 18.75},
		{ID: uuid.New().String(), Name: "DC Fuse 20A", Unit: "pcs", Quantity: 35, MinQuantity: 10, AveragePrice: 4.10},
	}
	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			log.Fatalf("❌ Failed to seed stock item: %v", err)
		}
	}
	fmt.Printf("✅ Seeded %d stock items\n", len(items))

	// Open quotes waiting for their installation to finish
	quotes := []models.SalesQuote{
		{ID: uuid.New().String(), ClientName: "Hargrove Residence", Responsible: tech.Name, Date: time.Now().AddDate(0, 0, -12), Total: 11800, Status: models.QuoteStatusOpen},
		{ID: uuid.New().String(), ClientName: "Ridgeline Farm", Responsible: tech.Name, Date: time.Now().AddDate(0, 0, -5), Total: 23400, Status: models.QuoteStatusOpen},
	}
	for i := range quotes {
		if err := db.Create(&quotes[i]).Error; err != nil {
			log.Fatalf("❌ Failed to seed quote: %v", err)
		}
	}
	fmt.Printf("✅ Seeded %d sales quotes\n", len(quotes))

	// One open check-in per quote, referencing catalog items
	checkIns := []models.FieldRecord{
		{
			ID: uuid.New().String(), OwnerID: tech.ID, Kind: models.KindCheckIn,
			Project: "Hargrove Residence", Responsible: tech.Name,
			Date: time.Now().AddDate(0, 0, -10), Status: models.StatusOpen,
			ComponentsUsed: []models.ComponentUsage{
				{ItemID: items[0].ID, ItemName: items[0].Name, Quantity: 20},
				{ItemID: items[1].ID, ItemName: items[1].Name, Quantity: 1},
				{ItemID: items[3].ID, ItemName: items[3].Name, Quantity: 60},
			},
		},
		{
			ID: uuid.New().String(), OwnerID: tech.ID, Kind: models.KindCheckIn,
			Project: "Ridgeline Farm", Responsible: tech.Name,
			Date: time.Now().AddDate(0, 0, -4), Status: models.StatusOpen,
			ComponentsUsed: []models.ComponentUsage{
				{ItemID: items[0].ID, ItemName: items[0].Name, Quantity: 48},
				{ItemID: items[1].ID, ItemName: items[1].Name, Quantity: 2},
				{ItemID: items[4].ID, ItemName: items[4].Name, Quantity: 36},
			},
		},
	}
	for i := range checkIns {
		if err := db.Create(&checkIns[i]).Error; err != nil {
			log.Fatalf("❌ Failed to seed check-in: %v", err)
		}
	}
	fmt.Printf("✅ Seeded %d open check-ins\n", len(checkIns))

	fmt.Println()
	fmt.Println("Done. Log in as rvega@example.com / demo1234 and confirm a sale to")
	fmt.Println("watch reservations, the spawned check-out and the live feed.")
}
