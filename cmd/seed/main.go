package main

import (
	"errors"

	"homebank/internal/config"
	"homebank/internal/models"
	"homebank/internal/repositories"
	"homebank/internal/validation"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	email := config.GetEnv("SEED_EMAIL", "")
	password := config.GetEnv("SEED_PASSWORD", "")
	firstName := config.GetEnv("SEED_FIRST_NAME", "Melba")
	lastName := config.GetEnv("SEED_LAST_NAME", "Morel")

	if email == "" || password == "" {
		log.Fatal("SEED_EMAIL and SEED_PASSWORD must be set in environment")
	}
	if err := validation.Password(password); err != nil {
		log.Fatalf("SEED_PASSWORD rejected: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if err := repositories.InitDB(cfg); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer repositories.Close()

	customers := repositories.NewCustomerRepository(repositories.DB, repositories.CacheService)

	if _, err := customers.GetByEmail(email); err == nil {
		log.WithField("email", email).Info("customer already exists")
		return
	} else if !errors.Is(err, repositories.ErrCustomerNotFound) {
		log.Fatalf("failed to look up customer: %v", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	customer := &models.Customer{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  string(hashedPassword),
		Role:      models.RoleCustomer,
	}
	if err := customers.Create(customer); err != nil {
		log.Fatalf("failed to create customer: %v", err)
	}

	log.WithFields(log.Fields{
		"customer_id": customer.ID,
		"email":       customer.Email,
	}).Info("customer account created")
}
