package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/piiquante/internal/client/models"
)

var (
	getMultiline = GetMultiline
	getInt       = GetInt
	readFile     = os.ReadFile
)

// argOrPrompt returns args[0] or asks for it.
func (a *App) argOrPrompt(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return getSimpleText(a.reader, prompt, a.out)
}

func (a *App) List(ctx context.Context) error {
	list, err := a.api.ListSauces(ctx)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No sauces yet.")
		return nil
	}
	for _, s := range list {
		fmt.Fprintf(a.out, "%s  %-24s heat %2d  +%d/-%d\n", s.ID, s.Name, s.Heat, s.Likes, s.Dislikes)
	}
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, "Enter sauce id to show")
	if err != nil {
		return err
	}

	s, err := a.api.GetSauce(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	a.printSauce(s)
	return nil
}

func (a *App) printSauce(s *models.Sauce) {
	fmt.Fprintf(a.out, "%s\n", s.Name)
	fmt.Fprintf(a.out, "  id:           %s\n", s.ID)
	fmt.Fprintf(a.out, "  manufacturer: %s\n", s.Manufacturer)
	fmt.Fprintf(a.out, "  main pepper:  %s\n", s.MainPepper)
	fmt.Fprintf(a.out, "  heat:         %d/10\n", s.Heat)
	fmt.Fprintf(a.out, "  likes:        %d\n", s.Likes)
	fmt.Fprintf(a.out, "  dislikes:     %d\n", s.Dislikes)
	fmt.Fprintf(a.out, "  image:        %s\n", s.ImageURL)
	if s.Description != "" {
		fmt.Fprintf(a.out, "  %s\n", strings.ReplaceAll(s.Description, "\n", "\n  "))
	}
	if me := a.api.UserID(); me != "" && s.UserID == me {
		fmt.Fprintln(a.out, "  (yours)")
	}
}

// Add prompts for the sauce fields and an image path, then uploads them.
func (a *App) Add(ctx context.Context) error {
	var in models.SauceInput
	var err error

	if in.Name, err = getSimpleText(a.reader, "Name", a.out); err != nil {
		return err
	}
	if in.Manufacturer, err = getSimpleText(a.reader, "Manufacturer", a.out); err != nil {
		return err
	}
	if in.MainPepper, err = getSimpleText(a.reader, "Main pepper", a.out); err != nil {
		return err
	}
	if in.Description, err = getMultiline(a.reader, "Description", a.out); err != nil {
		return err
	}
	if in.Heat, err = getInt(a.reader, "Heat", a.out, 1, 10); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	path, err := getSimpleText(a.reader, "Image file path (jpg, png or webp)", a.out)
	if err != nil {
		return err
	}
	image, err := readFile(path)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	s, err := a.api.CreateSauce(ctx, in, filepath.Base(path), image)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Fprintf(a.out, "Added %s (%s)\n", s.Name, s.ID)
	return nil
}

// Vote sends like for the sauce in args: 1, -1 or 0.
func (a *App) Vote(ctx context.Context, args []string, like int) error {
	id, err := a.argOrPrompt(args, "Enter sauce id")
	if err != nil {
		return err
	}

	s, err := a.api.Vote(ctx, id, like)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Fprintf(a.out, "%s: +%d/-%d\n", s.Name, s.Likes, s.Dislikes)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, "Enter sauce id to delete")
	if err != nil {
		return err
	}

	if err := a.api.DeleteSauce(ctx, id); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Fprintln(a.out, "Deleted")
	return nil
}
