package main

import (
	"log"
	"os"
)

func helper() {
	os.Exit(2)
}

func main() {
	if len(os.Args) > 3 {
		os.Exit(1) // want "вызов os.Exit в функции main запрещён"
	}
	if len(os.Args) > 2 {
		log.Fatalf("bad args: %v", os.Args) // want "вызов log.Fatalf в функции main запрещён"
	}
	defer func() {
		log.Fatal("late") // want "вызов log.Fatal в функции main запрещён"
	}()
	helper()
}
