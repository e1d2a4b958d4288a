// SPDX-License-Identifier: Apache-2.0

package catalog

// Query text lives here, one constant per catalog concern, the way the
// this keeps one big read_schema function self-contained in
// pkg/state/state.go. Unlike that function these are plain parameterized
// Go-side queries (spec.md §4.1): one query per object kind instead of a
// single JSON-building plpgsql function, so each kind can be versioned
// independently via (*Reader).version.

const schemaListQuery = `
SELECT nspname FROM pg_namespace
ORDER BY nspname`

const schemaOwnerACLQuery = `
SELECT pg_get_userbyid(nspowner), COALESCE(nspacl, '{}')::text[], obj_description(oid, 'pg_namespace')
FROM pg_namespace WHERE nspname = $1`

// extensionMemberOIDsQuery returns every OID owned by an installed
// extension, via pg_depend's 'e' (extension) dependency type -- used by
// readTables to skip extension-owned tables (spec.md §9); other kinds are
// not filtered by it.
const extensionMemberOIDsQuery = `
SELECT objid::text FROM pg_depend WHERE deptype = 'e'`

const tableListQuery = `
SELECT c.oid::text, c.relname, pg_get_userbyid(c.relowner),
       COALESCE(c.relacl, '{}')::text[], obj_description(c.oid, 'pg_class'),
       COALESCE(ts.spcname, ''), c.relkind = 'p'
FROM pg_class c
JOIN pg_namespace n ON n.oid = c.relnamespace
LEFT JOIN pg_tablespace ts ON ts.oid = c.reltablespace
WHERE n.nspname = $1 AND c.relkind IN ('r', 'p')
ORDER BY c.relname`

// columnListQuery reads a.attidentity, added in PG10 (GENERATED ... AS
// IDENTITY, spec.md §4.1 edge case). columnListQueryLegacy is used on 9.x
// servers where that column does not exist in pg_attribute (the versioned-
// query table this spec requires, kept minimal: only columns that
// actually differ across the supported range get a second variant).
const columnListQuery = `
SELECT a.attname, format_type(a.atttypid, a.atttypmod), a.attnotnull,
       pg_get_expr(d.adbin, d.adrelid), COALESCE(co.collname, ''),
       a.attstattarget, a.attidentity,
       COALESCE(a.attstorage::text, '')
FROM pg_attribute a
LEFT JOIN pg_attrdef d ON d.adrelid = a.attrelid AND d.adnum = a.attnum
LEFT JOIN pg_collation co ON co.oid = a.attcollation
WHERE a.attrelid = $1 AND a.attnum > 0 AND NOT a.attisdropped
ORDER BY a.attnum`

const columnListQueryLegacy = `
SELECT a.attname, format_type(a.atttypid, a.atttypmod), a.attnotnull,
       pg_get_expr(d.adbin, d.adrelid), COALESCE(co.collname, ''),
       a.attstattarget, '' AS attidentity,
       COALESCE(a.attstorage::text, '')
FROM pg_attribute a
LEFT JOIN pg_attrdef d ON d.adrelid = a.attrelid AND d.adnum = a.attnum
LEFT JOIN pg_collation co ON co.oid = a.attcollation
WHERE a.attrelid = $1 AND a.attnum > 0 AND NOT a.attisdropped
ORDER BY a.attnum`

const constraintListQuery = `
SELECT conname, contype::text, pg_get_constraintdef(oid),
       conkey::int[], COALESCE(confrelid::text, ''), confkey::int[],
       CASE confupdtype WHEN 'a' THEN 'NO ACTION' WHEN 'r' THEN 'RESTRICT' WHEN 'c' THEN 'CASCADE' WHEN 'n' THEN 'SET NULL' WHEN 'd' THEN 'SET DEFAULT' ELSE '' END,
       CASE confdeltype WHEN 'a' THEN 'NO ACTION' WHEN 'r' THEN 'RESTRICT' WHEN 'c' THEN 'CASCADE' WHEN 'n' THEN 'SET NULL' WHEN 'd' THEN 'SET DEFAULT' ELSE '' END,
       condeferrable, condeferred
FROM pg_constraint
WHERE conrelid = $1
ORDER BY conname`

const indexListQuery = `
SELECT c.relname, pg_get_indexdef(i.indexrelid), i.indisunique,
       am.amname, COALESCE(pg_get_expr(i.indpred, i.indrelid), ''),
       COALESCE(ts.spcname, '')
FROM pg_index i
JOIN pg_class c ON c.oid = i.indexrelid
JOIN pg_am am ON am.oid = c.relam
LEFT JOIN pg_tablespace ts ON ts.oid = c.reltablespace
WHERE i.indrelid = $1 AND NOT i.indisprimary
  AND NOT EXISTS (SELECT 1 FROM pg_constraint con WHERE con.conindid = i.indexrelid)
ORDER BY c.relname`

const triggerListQuery = `
SELECT t.tgname, pg_get_triggerdef(t.oid), p.proname
FROM pg_trigger t
JOIN pg_proc p ON p.oid = t.tgfoid
WHERE t.tgrelid = $1 AND NOT t.tgisinternal
ORDER BY t.tgname`

const ruleListQuery = `
SELECT rulename, pg_get_ruledef(oid)
FROM pg_rewrite WHERE ev_class = $1 AND rulename != '_RETURN'
ORDER BY rulename`

const sequenceOwnerQuery = `
SELECT refobjid::text, a.attname
FROM pg_depend d
JOIN pg_attribute a ON a.attrelid = d.refobjid AND a.attnum = d.refobjsubid
WHERE d.objid = $1 AND d.deptype IN ('a', 'i') AND d.refobjsubid != 0
LIMIT 1`

const sequenceListQuery = `
SELECT c.oid::text, c.relname, pg_get_userbyid(c.relowner),
       COALESCE(c.relacl, '{}')::text[], obj_description(c.oid, 'pg_class')
FROM pg_class c JOIN pg_namespace n ON n.oid = c.relnamespace
WHERE n.nspname = $1 AND c.relkind = 'S'
ORDER BY c.relname`

const sequenceAttrsQuery = `
SELECT data_type, start_value, increment_by, min_value, max_value, cycle_option = 'YES'
FROM information_schema.sequences
WHERE sequence_schema = $1 AND sequence_name = $2`

const viewListQuery = `
SELECT c.oid::text, c.relname, pg_get_userbyid(c.relowner),
       COALESCE(c.relacl, '{}')::text[], obj_description(c.oid, 'pg_class'),
       pg_get_viewdef(c.oid, true), c.relkind = 'm'
FROM pg_class c JOIN pg_namespace n ON n.oid = c.relnamespace
WHERE n.nspname = $1 AND c.relkind IN ('v', 'm')
ORDER BY c.relname`

const functionListQuery = `
SELECT p.oid::text, p.proname, pg_get_function_identity_arguments(p.oid),
       pg_get_userbyid(p.proowner), COALESCE(p.proacl, '{}')::text[],
       obj_description(p.oid, 'pg_proc'), pg_get_function_result(p.oid),
       l.lanname, p.prosrc, p.provolatile::text, p.proisstrict,
       p.prosecdef
FROM pg_proc p
JOIN pg_namespace n ON n.oid = p.pronamespace
JOIN pg_language l ON l.oid = p.prolang
WHERE n.nspname = $1 AND p.prokind = 'f'
ORDER BY p.proname`

const extensionListQuery = `
SELECT e.extname, n.nspname, e.extversion, obj_description(e.oid, 'pg_extension')
FROM pg_extension e JOIN pg_namespace n ON n.oid = e.extnamespace
ORDER BY e.extname`

const languageListQuery = `
SELECT l.lanname, l.lanpltrusted, hp.proname, vp.proname
FROM pg_language l
LEFT JOIN pg_proc hp ON hp.oid = l.lanplcallfoid
LEFT JOIN pg_proc vp ON vp.oid = l.lanvalidator
WHERE l.lanispl
ORDER BY l.lanname`

const castListQuery = `
SELECT format_type(c.castsource, NULL), format_type(c.casttarget, NULL),
       COALESCE(p.proname, ''), c.castcontext::text, c.castmethod::text
FROM pg_cast c
LEFT JOIN pg_proc p ON p.oid = c.castfunc
ORDER BY 1, 2`

const aggregateListQuery = `
SELECT p.oid::text, p.proname, pg_get_function_identity_arguments(p.oid),
       pg_get_userbyid(p.proowner), COALESCE(p.proacl, '{}')::text[],
       obj_description(p.oid, 'pg_proc'),
       sfn.proname, format_type(a.aggtranstype, NULL),
       COALESCE(ffn.proname, ''), COALESCE(cfn.proname, ''),
       COALESCE(a.agginitval, '')
FROM pg_aggregate a
JOIN pg_proc p ON p.oid = a.aggfnoid
JOIN pg_namespace n ON n.oid = p.pronamespace
JOIN pg_proc sfn ON sfn.oid = a.aggtransfn
LEFT JOIN pg_proc ffn ON ffn.oid = a.aggfinalfn AND a.aggfinalfn != 0
LEFT JOIN pg_proc cfn ON cfn.oid = a.aggcombinefn AND a.aggcombinefn != 0
WHERE n.nspname = $1
ORDER BY p.proname`
