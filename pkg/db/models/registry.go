package models

// All lists the persisted models in dependency order for sqlite AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Part{},
		&Procurement{},
		&Deployment{},
		&DeploymentLine{},
		&RecordReference{},
		&ReconciliationReport{},
		&OutboxEvent{},
		&OutboxDLQ{},
	}
}
