package main

import (
	"github.com/stortfordearlybirds/membership-service/config"
	"github.com/stortfordearlybirds/membership-service/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
