package Models

import (
	"log"

	"gorm.io/gorm"
)

// SeedSampleData creates the default wash packages and a demo admin account
// if they do not exist yet
func SeedSampleData(db *gorm.DB) error {
	services := []Service{
		{Name: "Basic Wash", Description: "Exterior wash with basic cleaning.", Price: 15.99, DurationMinutes: 30},
		{Name: "Premium Wash", Description: "Exterior wash with premium cleaning products, includes tire shine and wheel cleaning.", Price: 29.99, DurationMinutes: 45},
		{Name: "Deluxe Package", Description: "Complete interior and exterior cleaning with premium products.", Price: 49.99, DurationMinutes: 90},
		{Name: "Interior Detail", Description: "Deep cleaning of all interior surfaces, includes vacuuming and stain removal.", Price: 39.99, DurationMinutes: 60},
		{Name: "Full Detail Package", Description: "Complete detailing of both interior and exterior, includes waxing and polishing.", Price: 89.99, DurationMinutes: 180},
	}

	created := 0
	for _, service := range services {
		var existing Service
		err := db.Where("name = ?", service.Name).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&service).Error; err != nil {
				return err
			}
			created++
			log.Printf("Created service: %s", service.Name)
		} else if err != nil {
			return err
		}
	}
	log.Printf("Seeded %d new services", created)

	var admin User
	err := db.Where("username = ?", "admin").First(&admin).Error
	if err == gorm.ErrRecordNotFound {
		admin = User{
			Username:   "admin",
			Email:      "admin@autowash.local",
			FirstName:  "Site",
			LastName:   "Admin",
			Permission: PermissionAdmin,
		}
		if err := admin.SetPassword("admin123"); err != nil {
			return err
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
		log.Println("Created default admin account")
	} else if err != nil {
		return err
	}

	return nil
}
