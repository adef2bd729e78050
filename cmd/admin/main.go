package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/clicon/internal/admin"
	"github.com/dmitrijs2005/clicon/internal/server"
	"github.com/dmitrijs2005/clicon/internal/server/auth"
	"github.com/dmitrijs2005/clicon/internal/server/config"
	"github.com/dmitrijs2005/clicon/internal/server/services"
)

const usage = `usage: admin <create-admin|promote|demote> [server flags]

Store settings are read the same way as the server's (environment, .env,
-c config.json, short flags).`

func main() {

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()
	cfg := config.LoadConfig()

	rm, err := server.OpenRepositoryManager(ctx, cfg)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer rm.Close(ctx)

	if err := rm.RunMigrations(ctx); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	users := services.NewUserService(rm, auth.NewBcryptHasher(0), cfg)
	app := admin.NewApp(users, os.Stdin, os.Stdout, int(os.Stdin.Fd()))

	if err := app.Run(ctx, os.Args[1]); err != nil {
		log.Printf("%v", err)
		rm.Close(ctx)
		os.Exit(1)
	}

}
