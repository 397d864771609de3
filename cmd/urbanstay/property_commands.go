package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harshhujare/urban-frontend/domain"
	"github.com/harshhujare/urban-frontend/internal/app"
	"github.com/harshhujare/urban-frontend/internal/services"
)

func newPropertiesCmd(container *app.Container) *cobra.Command {
	properties := &cobra.Command{
		Use:   "properties",
		Short: "Browse and manage listings",
	}

	properties.AddCommand(
		newPropertiesListCmd(container),
		newPropertiesGetCmd(container),
		newPropertiesMineCmd(container),
		newPropertiesCreateCmd(container),
		newPropertiesUpdateCmd(container),
		newPropertiesDeleteCmd(container),
	)
	return properties
}

func newPropertiesListCmd(container *app.Container) *cobra.Command {
	var (
		filters   domain.PropertyFilters
		fromQuery string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Search listings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromQuery != "" {
				// Restore a shared search verbatim.
				restored, err := services.DecodeFilters(fromQuery)
				if err != nil {
					return err
				}
				filters = restored
			}

			results, err := container.PropertyGw.List(cmd.Context(), filters)
			if err != nil {
				return err
			}

			if encoded, err := services.EncodeFilters(filters); err == nil && encoded != "" {
				cmd.Printf("Search: ?%s\n", encoded)
			}
			if len(results) == 0 {
				cmd.Println("No listings found.")
				return nil
			}
			for _, p := range results {
				printProperty(cmd, p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filters.Query, "query", "q", "", "free-text search")
	cmd.Flags().StringVar(&filters.City, "city", "", "city")
	cmd.Flags().IntVar(&filters.MinPrice, "min-price", 0, "minimum rent")
	cmd.Flags().IntVar(&filters.MaxPrice, "max-price", 0, "maximum rent")
	cmd.Flags().IntVar(&filters.Bedrooms, "bedrooms", 0, "bedroom count")
	cmd.Flags().IntVar(&filters.Guests, "guests", 0, "guest count")
	cmd.Flags().StringVar(&filters.CheckIn, "check-in", "", "check-in date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filters.CheckOut, "check-out", "", "check-out date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&filters.Amenities, "amenities", nil, "required amenities")
	cmd.Flags().StringVar(&fromQuery, "from-query", "", "restore a shared search query string")
	return cmd
}

func newPropertiesGetCmd(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			property, err := container.PropertyGw.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printProperty(cmd, *property)
			cmd.Printf("  %s\n", property.Description)
			return nil
		},
	}
}

func newPropertiesMineCmd(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your own properties",
		RunE: func(cmd *cobra.Command, args []string) error {
			container.Session.Hydrate(cmd.Context())
			results, err := container.PropertyGw.Mine(cmd.Context())
			if err != nil {
				return err
			}
			if len(results) == 0 {
				cmd.Println("You have no listings yet.")
				return nil
			}
			for _, p := range results {
				printProperty(cmd, p)
			}
			return nil
		},
	}
}

func newPropertiesCreateCmd(container *app.Container) *cobra.Command {
	var (
		title       string
		description string
		rentType    string
		rentAmount  float64
		maxGuests   int
		amenities   []string
		city        string
		address     string
		lat, lng    float64
		imagePaths  []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a listing (basic info, location, images)",
		RunE: func(cmd *cobra.Command, args []string) error {
			container.Session.Hydrate(cmd.Context())
			wizard := container.NewListingWizard()

			wizard.SetBasicInfo(title, description, rentType, rentAmount, maxGuests)
			for _, a := range amenities {
				wizard.ToggleAmenity(a)
			}
			if err := wizard.Next(); err != nil {
				return err
			}

			wizard.SetLocation(city, address)
			if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
				wizard.SetCoordinates(lat, lng)
			}
			if err := wizard.Next(); err != nil {
				return err
			}

			opened := make([]*os.File, 0, len(imagePaths))
			defer func() {
				for _, f := range opened {
					f.Close()
				}
			}()
			for _, path := range imagePaths {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				opened = append(opened, f)
				wizard.AddImage(domain.UploadFile{Name: filepath.Base(path), Reader: f})
			}

			property, err := wizard.Submit(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("Listing created: %s (%s)\n", property.Title, property.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "listing title (min 10 characters)")
	cmd.Flags().StringVar(&description, "description", "", "listing description (min 50 characters)")
	cmd.Flags().StringVar(&rentType, "rent-type", "entire_property", "rent type")
	cmd.Flags().Float64Var(&rentAmount, "rent", 0, "rent amount (min 500)")
	cmd.Flags().IntVar(&maxGuests, "guests", 2, "maximum guests")
	cmd.Flags().StringSliceVar(&amenities, "amenities", nil, "amenities")
	cmd.Flags().StringVar(&city, "city", "", "city")
	cmd.Flags().StringVar(&address, "address", "", "street address")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude")
	cmd.Flags().StringSliceVar(&imagePaths, "image", nil, "image file (repeatable)")
	return cmd
}

func newPropertiesUpdateCmd(container *app.Container) *cobra.Command {
	var (
		title       string
		description string
		rentType    string
		rentAmount  float64
		maxGuests   int
		amenities   []string
		city        string
		address     string
		lat, lng    float64
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a listing (unset flags keep their current values)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container.Session.Hydrate(cmd.Context())

			current, err := container.PropertyGw.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			draft := domain.PropertyDraft{
				Title:       current.Title,
				Description: current.Description,
				RentType:    current.RentType,
				RentAmount:  current.RentAmount,
				MaxGuests:   current.MaxGuests,
				Amenities:   current.Amenities,
				Location:    current.Location,
				Coordinates: current.Coordinates,
				Images:      current.Images,
			}

			flags := cmd.Flags()
			if flags.Changed("title") {
				draft.Title = title
			}
			if flags.Changed("description") {
				draft.Description = description
			}
			if flags.Changed("rent-type") {
				draft.RentType = rentType
			}
			if flags.Changed("rent") {
				draft.RentAmount = rentAmount
			}
			if flags.Changed("guests") {
				draft.MaxGuests = maxGuests
			}
			if flags.Changed("amenities") {
				draft.Amenities = amenities
			}
			if flags.Changed("city") {
				draft.Location.City = city
			}
			if flags.Changed("address") {
				draft.Location.Address = address
			}
			if flags.Changed("lat") && flags.Changed("lng") {
				draft.Coordinates = &domain.Coordinates{Latitude: lat, Longitude: lng}
			}

			updated, err := container.PropertyGw.Update(cmd.Context(), args[0], draft)
			if err != nil {
				return err
			}
			cmd.Printf("Listing updated: %s (%s)\n", updated.Title, updated.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "listing title")
	cmd.Flags().StringVar(&description, "description", "", "listing description")
	cmd.Flags().StringVar(&rentType, "rent-type", "", "rent type")
	cmd.Flags().Float64Var(&rentAmount, "rent", 0, "rent amount")
	cmd.Flags().IntVar(&maxGuests, "guests", 0, "maximum guests")
	cmd.Flags().StringSliceVar(&amenities, "amenities", nil, "amenities (replaces the current set)")
	cmd.Flags().StringVar(&city, "city", "", "city")
	cmd.Flags().StringVar(&address, "address", "", "street address")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude")
	return cmd
}

func newPropertiesDeleteCmd(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container.Session.Hydrate(cmd.Context())
			if err := container.PropertyGw.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Println("Listing deleted.")
			return nil
		},
	}
}

func newUploadCmd(container *app.Container) *cobra.Command {
	upload := &cobra.Command{
		Use:   "upload",
		Short: "Upload images",
	}

	avatar := &cobra.Command{
		Use:   "avatar <file>",
		Short: "Upload a profile picture and attach it to your profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container.Session.Hydrate(cmd.Context())

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			url, err := container.UploadGw.ProfilePicture(cmd.Context(), domain.UploadFile{
				Name:   filepath.Base(args[0]),
				Reader: f,
			})
			if err != nil {
				return err
			}

			if _, err := container.Session.UpdateProfile(cmd.Context(), domain.ProfileUpdate{ProfilePhoto: url}); err != nil {
				return fmt.Errorf("uploaded to %s but profile update failed: %w", url, err)
			}
			cmd.Printf("Profile picture updated: %s\n", url)
			return nil
		},
	}

	upload.AddCommand(avatar)
	return upload
}

func printProperty(cmd *cobra.Command, p domain.Property) {
	cmd.Printf("%s  %s (%s), Rs %.0f/mo, up to %d guests\n",
		p.ID, p.Title, p.Location.City, p.RentAmount, p.MaxGuests)
}
