package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Dashboard(ctx context.Context) error
	NextPage(ctx context.Context) error
	PrevPage(ctx context.Context) error
	GotoPage(ctx context.Context, page string) error
	Predict(ctx context.Context, tripID string) error
	Outcome(ctx context.Context, outcome string) error
	Submit(ctx context.Context) error
	Find(ctx context.Context, term string) error
	Befriend(ctx context.Context, userID string) error
	Requests(ctx context.Context) error
	Accept(ctx context.Context, senderID string) error
	Reject(ctx context.Context, senderID string) error
	Friends(ctx context.Context) error
	Leaderboard(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the OnTrack CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// Any active banner (from bannerFn) is printed above the prompt, which shows
// the current status (from statusFn). Accepted commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - board          — global leaderboard (public)
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help                  — show available commands
//	  - (d)ashboard           — reload and show the dashboard
//	  - next | prev | page N  — move through the trip pages
//	  - predict TRIP          — pick a trip to predict
//	  - outcome on_time|late|early
//	  - submit                — send the prediction
//	  - find TERM             — search users by nickname or email
//	  - add ID                — send a friend request
//	  - requests              — list pending friend requests
//	  - accept ID | reject ID — answer a pending request
//	  - friends               — friends ranked by score
//	  - board                 — global leaderboard
//	  - logout, exit | quit
//
// Any errors returned by command handlers are ignored here; handlers banner
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn, bannerFn func() string, scanner *bufio.Scanner) {
	for {
		if msg := bannerFn(); msg != "" {
			printlnFn(msg)
		}
		printlnFn(fmt.Sprintf("ontrack %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		arg := ""
		if len(args) > 0 {
			arg = strings.Join(args, " ")
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (d)ashboard, next, prev, page N, predict TRIP, outcome on_time|late|early, submit, find TERM, add ID, requests, accept ID, reject ID, friends, board, logout, exit")
			} else {
				printlnFn("Available commands: register, login, board, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "d", "dashboard":
			_ = a.Dashboard(ctx)

		case "next":
			_ = a.NextPage(ctx)

		case "prev":
			_ = a.PrevPage(ctx)

		case "page":
			if arg == "" {
				printlnFn("Usage: page N")
				continue
			}
			_ = a.GotoPage(ctx, arg)

		case "predict":
			if arg == "" {
				printlnFn("Usage: predict TRIP_ID")
				continue
			}
			_ = a.Predict(ctx, arg)

		case "outcome":
			if arg == "" {
				printlnFn("Usage: outcome on_time|late|early")
				continue
			}
			_ = a.Outcome(ctx, arg)

		case "submit":
			_ = a.Submit(ctx)

		case "find":
			_ = a.Find(ctx, arg)

		case "add":
			if arg == "" {
				printlnFn("Usage: add USER_ID")
				continue
			}
			_ = a.Befriend(ctx, arg)

		case "requests":
			_ = a.Requests(ctx)

		case "accept":
			if arg == "" {
				printlnFn("Usage: accept SENDER_ID")
				continue
			}
			_ = a.Accept(ctx, arg)

		case "reject":
			if arg == "" {
				printlnFn("Usage: reject SENDER_ID")
				continue
			}
			_ = a.Reject(ctx, arg)

		case "friends":
			_ = a.Friends(ctx)

		case "board", "top", "leaderboard":
			_ = a.Leaderboard(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
