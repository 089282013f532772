// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

/*
Package documents downloads the single-document data sets that sit beside
the card definition catalog. Each job writes its payload verbatim:

  - item-database: item-set-database_0.0 / itemsets -> card-database/item-set-database.json
  - card-actions: actionsTable_0.0 / actionsTable -> card-actions/actions.db (binary)
  - card-databases: every entry of card-database-manifest_0.0, with {0}
    replaced by the locale -> card-database/card-database-<name>_0.0.db (binary)
  - deck-validation: rules-{expanded,standard,dev}_0.0 / rules -> deck-validation/<document>.json
  - feature-flags: feature-flags_0.0 / featureMap -> <definitions>/feature-flags.json
  - quests: query quest-setup-get-all-quests -> quest-data/current-quest-data.json (indented)
  - ai-customizations: query offline-get-ai-customizations, sampled N times ->
    <definitions>/ai-customizations/ai-customization-<unix nanos>.json

Binary tables are stored as delivered; no conversion of their format is done.
Files are written with catalog.WriteFileAtomic and failures wrap
catalog.ErrStorage. Non-zero query codes wrap catalog.ErrUnexpectedService.
*/
package documents
