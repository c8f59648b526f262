package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("tickets")

		collection.Fields.Add(
			&core.TextField{
				Name:     "name",
				Required: true,
			},
			&core.TextField{
				Name:     "phone",
				Required: true,
			},
			&core.TextField{
				Name:     "event",
				Required: true,
			},
			&core.TextField{
				Name:     "ticketId",
				Required: true,
				Pattern:  `^TKT-[A-Z0-9]{5}$`,
			},
			&core.BoolField{
				Name: "validated",
			},
			&core.AutodateField{
				Name:     "createdAt",
				OnCreate: true,
			},
		)

		// duplicate ticket codes are rejected at the store level
		collection.AddIndex("idx_tickets_ticketId", true, "ticketId", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("tickets")
		if err != nil {
			return err
		}

		return app.Delete(collection)
	})
}
