package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress string `env:"MAIL_SERVER_ADDR,default=localhost:8080"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run connects to the mail server and loops over console commands until the
// user exits or the server closes the connection.
func run() (int, error) {
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	conn, err := net.Dial("tcp", config.ServerAddress)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	defer conn.Close()

	color.Magenta.Printf("Connected to %s\n", config.ServerAddress)
	color.Yellow.Println("Type 'help' for the command list.")

	session := &Console{
		server: bufio.NewScanner(conn),
		conn:   conn,
	}
	session.server.Buffer(make([]byte, 0, 4*1024), 1<<20)

	stdin := bufio.NewScanner(os.Stdin)
	for {
		color.Cyan.Print("> ")
		if !stdin.Scan() {
			return exitOK, nil
		}
		input := strings.TrimSpace(stdin.Text())
		if input == "" {
			continue
		}

		quit, err := session.Execute(input)
		if err != nil {
			return exitRuntime, err
		}
		if quit {
			return exitOK, nil
		}
	}
}
