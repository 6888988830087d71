package main

import (
	"log"
	"os"

	"github.com/valyala/fasthttp"

	"overtime-engine/internal/handler"
	"overtime-engine/internal/policy"
)

func main() {
	pol, err := policy.Load()
	if err != nil {
		log.Fatalf("Policy configuration invalid: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Overtime engine starting on port %s (month cap %v h, quarter cap %v h)",
		port, pol.MonthCap, pol.QuarterCap)
	if err := fasthttp.ListenAndServe(":"+port, handler.New(pol)); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
