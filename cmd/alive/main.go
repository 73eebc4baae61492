/*
Package main is the entry point for the Alive client shell.

It wires the backend facade into the navigation shell and renders the
requested page as text. ALIVE_URL and ALIVE_ANON_KEY select the service;
both are required.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/aizatop/alive/internal/catalog"
	"github.com/aizatop/alive/internal/client"
	"github.com/aizatop/alive/internal/configs"
	"github.com/aizatop/alive/internal/flow/chatflow"
	"github.com/aizatop/alive/internal/pkg/logx"
	"github.com/aizatop/alive/internal/shell"
)

func main() {
	route := flag.String("route", "/", "page to open")
	email := flag.String("email", "", "sign in before opening the page")
	password := flag.String("password", "", "password for -email")
	flag.Parse()

	cfg, err := configs.LoadClientConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(true)

	ctx := context.Background()
	backend := client.New(cfg)

	if *email != "" {
		if _, customErr := backend.SignIn(ctx, *email, *password); customErr != nil {
			logx.Fatal(customErr, "Sign-in failed")
		}
	}

	s := shell.New(backend)
	page := s.Navigate(ctx, *route)

	switch page {
	case shell.PageHome:
		renderHome(s.Home())
	case shell.PageAuth:
		fmt.Println("Auth: вход или регистрация")
	case shell.PageChat:
		renderChat(s.Chat())
	case shell.PageNotFound:
		fmt.Printf("%s: %s\n", shell.NotFoundTitle, shell.NotFoundText)
	case shell.PageError:
		fmt.Println(shell.ErrorText)
	}
}

func renderHome(home *catalog.Flow) {
	state := home.State()
	if state.User != nil {
		fmt.Printf("Добро пожаловать, %s!\n\n", state.User.Email)
	} else {
		fmt.Println("AliveAgain. Путешествуй по миру виртуально 🌍")
		fmt.Println()
	}

	for _, country := range state.Countries {
		fmt.Printf("%s\n  %s\n  🎥 %s\n", country.Name, country.Description, country.VideoURL)
		for _, attraction := range country.Attractions {
			fmt.Printf("    %s\n", attraction)
		}
		fmt.Println()
	}
}

func renderChat(chat *chatflow.Flow) {
	state := chat.State()
	if state.ErrorText != "" {
		fmt.Println(state.ErrorText)
	}
	for _, m := range state.Messages {
		fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Format("15:04"), m.SenderLabel, m.Content)
	}
}
