package cron

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/medvault/medvault-server/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Doctor{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func provisionDoctor(t *testing.T, conn *gorm.DB, email, license string, expiry time.Time) models.User {
	t.Helper()
	user := models.User{
		FirstName:                "Test",
		LastName:                 "Doctor",
		Email:                    email,
		Role:                     models.RoleDoctor,
		IsPasswordSet:            false,
		PasswordResetToken:       "token-" + license,
		PasswordResetTokenExpiry: &expiry,
	}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	doctor := models.Doctor{
		UserID:         user.ID,
		Specialization: "Cardiology",
		LicenseNumber:  license,
		IsActive:       true,
	}
	if err := conn.Create(&doctor).Error; err != nil {
		t.Fatalf("create doctor: %v", err)
	}
	return user
}

func TestCleanupRemovesExpiredAccountAndProfile(t *testing.T) {
	conn := openTestDB(t)
	stale := provisionDoctor(t, conn, "stale@example.com", "LIC-1", time.Now().Add(-time.Hour))

	removeExpiredUnverifiedAccounts(conn)

	var users int64
	conn.Model(&models.User{}).Where("id = ?", stale.ID).Count(&users)
	if users != 0 {
		t.Errorf("expired user row survived the sweep")
	}
	var doctors int64
	conn.Model(&models.Doctor{}).Where("user_id = ?", stale.ID).Count(&doctors)
	if doctors != 0 {
		t.Errorf("doctor profile row survived the sweep")
	}
}

func TestCleanupKeepsUnexpiredAndVerifiedAccounts(t *testing.T) {
	conn := openTestDB(t)
	stale := provisionDoctor(t, conn, "stale@example.com", "LIC-1", time.Now().Add(-time.Hour))
	fresh := provisionDoctor(t, conn, "fresh@example.com", "LIC-2", time.Now().Add(23*time.Hour))

	patient := models.User{
		FirstName:     "Asha",
		LastName:      "Verma",
		Email:         "asha@example.com",
		Role:          models.RolePatient,
		IsPasswordSet: true,
	}
	if err := conn.Create(&patient).Error; err != nil {
		t.Fatalf("create patient: %v", err)
	}

	removeExpiredUnverifiedAccounts(conn)

	var remaining []models.User
	if err := conn.Find(&remaining).Error; err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("%d users remain, want 2", len(remaining))
	}
	for _, user := range remaining {
		if user.ID == stale.ID {
			t.Errorf("expired user %d was kept", user.ID)
		}
	}

	var doctors int64
	conn.Model(&models.Doctor{}).Where("user_id = ?", fresh.ID).Count(&doctors)
	if doctors != 1 {
		t.Errorf("unexpired doctor profile was removed")
	}
}

func TestCleanupNoopOnEmptyTable(t *testing.T) {
	conn := openTestDB(t)

	removeExpiredUnverifiedAccounts(conn)

	var users int64
	conn.Model(&models.User{}).Count(&users)
	if users != 0 {
		t.Errorf("sweep created rows on an empty table")
	}
}
