package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"staffdesk/internal/app/ds"
	"staffdesk/internal/app/dsn"
	"staffdesk/internal/app/repository"
)

// Стартовый справочник пакетов для компаний
var packages = []ds.Package{
	{Name: "Старт", Description: "Один специалист на полставки", Employees: 1, Hours: 80, Equivalent: 45, Cost: 5000},
	{Name: "Команда", Description: "Два специалиста на полный месяц", Employees: 2, Hours: 160, Equivalent: 50, Cost: 20000},
	{Name: "Отдел", Description: "Пять специалистов на полный месяц", Employees: 5, Hours: 160, Equivalent: 48, Cost: 46000},
}

func main() {
	_ = godotenv.Load()

	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		log.Fatal("DSN string is empty. Check your .env file")
	}

	repo, err := repository.New(dsnStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	ctx := context.Background()
	existing, err := repo.ListPackages(ctx, "")
	if err != nil {
		log.Fatal("Failed to get packages:", err)
	}
	names := make(map[string]bool, len(existing))
	for _, p := range existing {
		names[p.Name] = true
	}

	for i := range packages {
		if names[packages[i].Name] {
			continue
		}
		if err := repo.CreatePackage(ctx, &packages[i]); err != nil {
			log.Fatalf("Failed to create package %s: %v", packages[i].Name, err)
		}
	}

	all, err := repo.ListPackages(ctx, "")
	if err != nil {
		log.Fatal("Failed to get packages:", err)
	}

	fmt.Println("Packages in database:")
	for _, p := range all {
		e, err := p.Terms().Economics()
		if err != nil {
			fmt.Printf("ID: %d, Name: %s, invalid terms: %v\n", p.ID, p.Name, err)
			continue
		}
		fmt.Printf("ID: %d, Name: %s, Cost: %.2f, BaseSalary: %.2f, Balance: %.2f, Margin: %.1f%%\n",
			p.ID, p.Name, p.Cost, e.BaseSalary, e.TotalBalance, e.Percentage*100)
	}
}
