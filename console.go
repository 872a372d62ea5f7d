package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/c-bata/go-prompt"
)

var consoleSuggestions = []prompt.Suggest{
	{Text: "play", Description: "start playback"},
	{Text: "stop", Description: "stop playback"},
	{Text: "toggle", Description: "start or stop"},
	{Text: "root", Description: "root note, e.g. root D4"},
	{Text: "interval", Description: "interval, e.g. interval M3"},
	{Text: "tuning", Description: "equal or pure"},
	{Text: "sound", Description: "drone or piano"},
	{Text: "volume", Description: "master volume 0..1"},
	{Text: "status", Description: "show current state"},
	{Text: "help", Description: "list commands"},
	{Text: "exit", Description: "quit"},
}

func consoleCompleter(d prompt.Document) []prompt.Suggest {
	return prompt.FilterHasPrefix(consoleSuggestions, d.GetWordBeforeCursor(), true)
}

// runConsole is the line-oriented control surface.
func runConsole(sess *session) {
	fmt.Println("tempered — type 'help' for commands")
	fmt.Println(sess.status())

	for {
		line := prompt.Input("> ", consoleCompleter)
		if execLine(sess, line) {
			sess.c.Stop()
			return
		}
	}
}

// execLine runs one command; reports true when the user wants out.
func execLine(sess *session, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "exit", "quit":
		return true

	case "play":
		if err := sess.c.Start(); err != nil {
			fmt.Println("ERROR:", err)
		}
	case "stop":
		sess.c.Stop()
	case "toggle":
		if err := sess.c.Toggle(); err != nil {
			fmt.Println("ERROR:", err)
		}

	case "root":
		if len(fields) < 2 {
			fmt.Println("usage: root <name>, one of", rootNames())
			break
		}
		i, ok := findRoot(fields[1])
		if !ok {
			fmt.Println("unknown root, one of", rootNames())
			break
		}
		sess.setRoot(i)
		fmt.Println(sess.status())

	case "interval":
		if len(fields) < 2 {
			fmt.Println("usage: interval <name>, one of", intervalNames())
			break
		}
		i, ok := findInterval(fields[1])
		if !ok {
			fmt.Println("unknown interval, one of", intervalNames())
			break
		}
		sess.setInterval(i)
		fmt.Println(sess.status())

	case "tuning":
		if len(fields) < 2 {
			fmt.Println("usage: tuning equal|pure")
			break
		}
		switch fields[1] {
		case "equal":
			sess.setTuning(TuningEqual)
		case "pure":
			sess.setTuning(TuningPure)
		default:
			fmt.Println("usage: tuning equal|pure")
			return false
		}
		fmt.Println(sess.status())

	case "sound":
		if len(fields) < 2 {
			fmt.Println("usage: sound drone|piano")
			break
		}
		switch fields[1] {
		case "drone":
			sess.c.SwitchSoundMode(ModeDrone)
		case "piano":
			sess.c.SwitchSoundMode(ModePiano)
		default:
			fmt.Println("usage: sound drone|piano")
			return false
		}
		fmt.Println(sess.status())

	case "volume":
		if len(fields) < 2 {
			fmt.Println("usage: volume 0..1")
			break
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			fmt.Println("usage: volume 0..1")
			break
		}
		sess.c.SetVolume(v)

	case "status":
		fmt.Println(sess.status())

	case "help":
		for _, s := range consoleSuggestions {
			fmt.Printf("  %-10s %s\n", s.Text, s.Description)
		}

	default:
		fmt.Printf("unknown command %q, try 'help'\n", fields[0])
	}

	return false
}

func findRoot(name string) (int, bool) {
	for i, r := range roots {
		if strings.EqualFold(r.Name, name) {
			return i, true
		}
	}
	return 0, false
}

func findInterval(name string) (int, bool) {
	for i, iv := range intervals {
		if strings.EqualFold(iv.Short, name) || strings.EqualFold(iv.Name, name) {
			return i, true
		}
	}
	return 0, false
}

func rootNames() string {
	var names []string
	for _, r := range roots {
		names = append(names, r.Name)
	}
	return strings.Join(names, " ")
}

func intervalNames() string {
	var names []string
	for _, iv := range intervals {
		names = append(names, iv.Short)
	}
	return strings.Join(names, " ")
}
