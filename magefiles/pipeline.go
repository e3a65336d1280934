//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Pdf segments the textbooks in go_books/ into scraped_go_data/go_books_dataset.jsonl.
func Pdf() error {
	mg.Deps(Init, Build)
	return sh.RunV(binary, "pdf")
}

// Web harvests the documentation sites into scraped_go_data/go_dataset.jsonl.
func Web() error {
	mg.Deps(Init, Build)
	return sh.RunV(binary, "web")
}

// Index indexes both dataset files and prints record and duplicate counts.
func Index() error {
	mg.Deps(Build)
	if err := sh.RunV(binary, "dataset", "store"); err != nil {
		return err
	}
	return sh.RunV(binary, "dataset", "stats")
}
