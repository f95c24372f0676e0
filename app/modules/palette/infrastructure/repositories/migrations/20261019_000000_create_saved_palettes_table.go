package migrations

func init() {
	Migrations.MustRegister(CreateSavedPalettesTable, DropSavedPalettesTable)
}
