package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"mailroom/domain"
	"mailroom/protocol"
)

const helpText = `Available commands:
- register <email> <password>
- login <email> <password>
- logout
- send <to> <subject> | <body>
- list sent|inbox
- read <emailId>
- search sent|inbox <keyword>
- exit`

// Console formats console commands into wire lines, performs the round trip
// and renders the response. It remembers the logged-in address because the
// protocol expects the claimed identity in every personal-data request.
type Console struct {
	server *bufio.Scanner
	conn   net.Conn
	user   string
}

// Execute handles one console command. The returned bool is true when the
// user asked to quit.
func (c *Console) Execute(input string) (bool, error) {
	fields := strings.Fields(input)
	verb := strings.ToLower(fields[0])

	switch verb {
	case "help":
		color.Yellow.Println(helpText)
		return false, nil
	case "register":
		if len(fields) != 3 {
			color.Red.Println("Usage: register <email> <password>")
			return false, nil
		}
		return false, c.roundTrip(protocol.CmdRegister, protocol.Credentials{Email: fields[1], Password: fields[2]})
	case "login":
		if len(fields) != 3 {
			color.Red.Println("Usage: login <email> <password>")
			return false, nil
		}
		err := c.roundTripWith(protocol.CmdLogin, protocol.Credentials{Email: fields[1], Password: fields[2]},
			func(token, _ string) {
				if token == protocol.Success(protocol.CmdLogin) {
					c.user = fields[1]
				}
			})
		return false, err
	case "logout":
		if c.user == "" {
			color.Red.Println("Not logged in")
			return false, nil
		}
		err := c.roundTripWith(protocol.CmdLogout, protocol.LogoutRequest{Email: c.user},
			func(token, _ string) {
				if token == protocol.Success(protocol.CmdLogout) {
					c.user = ""
				}
			})
		return false, err
	case "send":
		return false, c.send(input)
	case "list":
		if len(fields) != 2 {
			color.Red.Println("Usage: list sent|inbox")
			return false, nil
		}
		return false, c.roundTrip(protocol.CmdRetrieveEmails,
			protocol.RetrieveRequest{Email: c.user, Type: mailboxType(fields[1])})
	case "read":
		if len(fields) != 2 {
			color.Red.Println("Usage: read <emailId>")
			return false, nil
		}
		return false, c.roundTrip(protocol.CmdReadEmail, protocol.ReadRequest{Email: c.user, ID: fields[1]})
	case "search":
		if len(fields) < 3 {
			color.Red.Println("Usage: search sent|inbox <keyword>")
			return false, nil
		}
		return false, c.roundTrip(protocol.CmdSearchEmail, protocol.SearchRequest{
			Email:   c.user,
			Type:    mailboxType(fields[1]),
			Keyword: strings.Join(fields[2:], " "),
		})
	case "exit":
		err := c.roundTrip(protocol.CmdExit, protocol.LogoutRequest{Email: c.user})
		color.Yellow.Println("Goodbye.")
		return true, err
	default:
		color.Red.Printf("Unknown command %q, type 'help'\n", verb)
		return false, nil
	}
}

// send parses "send <to> <subject> | <body>": the subject runs up to the
// pipe, the body after it.
func (c *Console) send(input string) error {
	rest := strings.TrimSpace(strings.TrimPrefix(input, "send"))
	to, rest, found := strings.Cut(rest, " ")
	if !found {
		color.Red.Println("Usage: send <to> <subject> | <body>")
		return nil
	}
	subject, body, found := strings.Cut(rest, "|")
	if !found {
		color.Red.Println("Usage: send <to> <subject> | <body>")
		return nil
	}

	return c.roundTrip(protocol.CmdSendEmail, domain.Email{
		To:        to,
		From:      c.user,
		Subject:   strings.TrimSpace(subject),
		Body:      strings.TrimSpace(body),
		Timestamp: domain.Now(),
	})
}

func (c *Console) roundTrip(command string, payload any) error {
	return c.roundTripWith(command, payload, nil)
}

// roundTripWith sends one wire line, waits for the single response line and
// renders it. The observe hook lets callers track state such as the
// logged-in user.
func (c *Console) roundTripWith(command string, payload any, observe func(token, data string)) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(c.conn, protocol.EncodeRequest(command, string(data))); err != nil {
		return fmt.Errorf("server write failed: %w", err)
	}

	if !c.server.Scan() {
		if err := c.server.Err(); err != nil {
			return fmt.Errorf("server read failed: %w", err)
		}
		return fmt.Errorf("server closed the connection")
	}

	token, body := protocol.SplitResponse(c.server.Text())
	if observe != nil {
		observe(token, body)
	}
	c.render(token, body)
	return nil
}

func (c *Console) render(token, body string) {
	switch {
	case strings.HasSuffix(token, "_SUCCESS") && body == "":
		color.Green.Println(token)
	case token == protocol.Success(protocol.CmdRetrieveEmails) || token == protocol.Success(protocol.CmdSearchEmail):
		color.Green.Println(token)
		renderMailbox(body)
	case token == protocol.Success(protocol.CmdReadEmail):
		color.Green.Println(token)
		renderEmail(body)
	default:
		color.Red.Printf("%s: %s\n", token, body)
	}
}

// renderMailbox draws a listing as a table: one row per email, bodies
// excluded (read fetches the full record).
func renderMailbox(payload string) {
	var emails []domain.Email
	if err := json.Unmarshal([]byte(payload), &emails); err != nil {
		color.Red.Printf("Unreadable server payload: %v\n", err)
		return
	}
	if len(emails) == 0 {
		color.Yellow.Println("Mailbox is empty")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "From", "To", "Subject", "Timestamp"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, e := range emails {
		table.Append([]string{e.ID, e.From, e.To, e.Subject, e.Timestamp})
	}
	table.Render()
}

func renderEmail(payload string) {
	var e domain.Email
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		color.Red.Printf("Unreadable server payload: %v\n", err)
		return
	}
	color.Yellow.Printf("From:    %s\nTo:      %s\nDate:    %s\nSubject: %s\n\n", e.From, e.To, e.Timestamp, e.Subject)
	fmt.Println(e.Body)
}

// mailboxType maps the console's "inbox" onto the wire's "received".
func mailboxType(s string) string {
	if strings.EqualFold(s, "inbox") {
		return string(domain.DirectionReceived)
	}
	return string(domain.DirectionSent)
}
