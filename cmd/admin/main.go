package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/tasktracker/internal/admin"
	"github.com/dmitrijs2005/tasktracker/internal/flagx"
	"github.com/dmitrijs2005/tasktracker/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := admin.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
	}

	err = app.Run(ctx, flagx.Positional(os.Args[1:], config.ValueFlags))
	_ = app.Close()

	if err != nil {
		log.Fatalf("%v", err)
	}

}
