// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package documents

// Job names, in the order RunAll executes them.
const (
	JobItemDatabase     = "item-database"
	JobCardActions      = "card-actions"
	JobCardDatabases    = "card-databases"
	JobDeckValidation   = "deck-validation"
	JobFeatureFlags     = "feature-flags"
	JobQuests           = "quests"
	JobAICustomizations = "ai-customizations"
)

// Jobs lists every job name.
var Jobs = []string{
	JobItemDatabase,
	JobCardActions,
	JobCardDatabases,
	JobDeckValidation,
	JobFeatureFlags,
	JobQuests,
	JobAICustomizations,
}

// Output folders under the output root.
const (
	CategoryCardDatabase   = "card-database"
	CategoryCardActions    = "card-actions"
	CategoryDeckValidation = "deck-validation"
	CategoryQuestData      = "quest-data"
	// DefaultDefinitionsCategory matches the card definition category, which
	// also receives feature flags and AI customization captures.
	DefaultDefinitionsCategory = "card-definitions"
)

// Card database manifest and table naming.
const (
	cardDatabaseManifest      = "card-database-manifest_0.0"
	cardDatabaseManifestBlock = "manifest"
	cardDatabaseBlock         = "table"
	localePlaceholder         = "{0}"
)

// Query names.
const (
	questQuery           = "quest-setup-get-all-quests"
	aiCustomizationQuery = "offline-get-ai-customizations"
)

// docSpec is a document written verbatim from one of its blocks.
type docSpec struct {
	document string
	block    string
	// category is the folder under the output root; definitions means the
	// configured definitions category.
	category string
	file     string
	binary   bool
}

const definitions = ""

// staticJobs are the jobs made only of fixed documents.
var staticJobs = map[string][]docSpec{
	JobItemDatabase: {
		{document: "item-set-database_0.0", block: "itemsets", category: CategoryCardDatabase, file: "item-set-database.json"},
	},
	JobCardActions: {
		{document: "actionsTable_0.0", block: "actionsTable", category: CategoryCardActions, file: "actions.db", binary: true},
	},
	JobDeckValidation: {
		{document: "rules-expanded_0.0", block: "rules", category: CategoryDeckValidation, file: "rules-expanded_0.0.json"},
		{document: "rules-standard_0.0", block: "rules", category: CategoryDeckValidation, file: "rules-standard_0.0.json"},
		{document: "rules-dev_0.0", block: "rules", category: CategoryDeckValidation, file: "rules-dev_0.0.json"},
	},
	JobFeatureFlags: {
		{document: "feature-flags_0.0", block: "featureMap", category: definitions, file: "feature-flags.json"},
	},
}
