// SPDX-License-Identifier: Apache-2.0

package scheduler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dbschema/dbschema/pkg/model"
)

// createStmt renders the CREATE statement for one object. Tables are
// special-cased by the caller (ddl_table.go splits them into header and
// tail units) and never reach this function; columns and owned sequences
// are filtered out in units.go before createStmt is ever called for them.
func createStmt(o model.Object) (string, error) {
	switch v := o.(type) {
	case *model.Schema:
		return ensureSemicolon(fmt.Sprintf("CREATE SCHEMA %s", quoteIdent(v.Name))), nil
	case *model.View:
		cols := ""
		if len(v.Columns) > 0 {
			cols = " (" + quoteIdentList(v.Columns) + ")"
		}
		return ensureSemicolon(fmt.Sprintf("CREATE VIEW %s%s AS %s", qualified(v.Schema, v.Name), cols, v.Definition)), nil
	case *model.MatView:
		stmt := fmt.Sprintf("CREATE MATERIALIZED VIEW %s", qualified(v.Schema, v.Name))
		if v.Tablespace != "" {
			stmt += fmt.Sprintf(" TABLESPACE %s", quoteIdent(v.Tablespace))
		}
		stmt += " AS " + v.Definition
		if !v.WithData {
			stmt += " WITH NO DATA"
		}
		return ensureSemicolon(stmt), nil
	case *model.Sequence:
		return createSequenceStmt(v), nil
	case *model.Function:
		return createFunctionStmt(v), nil
	case *model.Aggregate:
		return createAggregateStmt(v), nil
	case *model.PrimaryKey:
		return ensureSemicolon(fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s PRIMARY KEY (%s)",
			qualified(v.Schema, v.Table), quoteIdent(v.Name), quoteIdentList(v.Columns))), nil
	case *model.CheckConstraint:
		stmt := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s)",
			qualified(v.Schema, v.Table), quoteIdent(v.Name), v.Expression)
		if v.NoInherit {
			stmt += " NO INHERIT"
		}
		return ensureSemicolon(stmt), nil
	case *model.UniqueConstraint:
		nnd := ""
		if v.NullsNotDistinct {
			nnd = "NULLS NOT DISTINCT "
		}
		return ensureSemicolon(fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s UNIQUE %s(%s)",
			qualified(v.Schema, v.Table), quoteIdent(v.Name), nnd, quoteIdentList(v.Columns))), nil
	case *model.ExcludeConstraint:
		stmt := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s %s",
			qualified(v.Schema, v.Table), quoteIdent(v.Name), v.Definition)
		return ensureSemicolon(stmt), nil
	case *model.ForeignKey:
		return createForeignKeyStmt(v), nil
	case *model.Index:
		if v.Definition != "" {
			return ensureSemicolon(v.Definition), nil
		}
		return createIndexStmt(v), nil
	case *model.Trigger:
		return ensureSemicolon(v.Definition), nil
	case *model.Rule:
		return ensureSemicolon(v.Definition), nil
	case *model.Type:
		return createTypeStmt(v), nil
	case *model.Domain:
		return createDomainStmt(v), nil
	case *model.Collation:
		return createCollationStmt(v), nil
	case *model.Conversion:
		def := ""
		if v.Default {
			def = "DEFAULT "
		}
		return ensureSemicolon(fmt.Sprintf("CREATE %sCONVERSION %s FOR %s TO %s FROM %s",
			def, qualified(v.Schema, v.Name), quoteLiteral(v.ForEncoding), quoteLiteral(v.ToEncoding), v.Function)), nil
	case *model.Extension:
		stmt := fmt.Sprintf("CREATE EXTENSION IF NOT EXISTS %s", quoteIdent(v.Name))
		if v.Schema != "" {
			stmt += fmt.Sprintf(" WITH SCHEMA %s", quoteIdent(v.Schema))
		}
		if v.Version != "" {
			stmt += fmt.Sprintf(" VERSION %s", quoteLiteral(v.Version))
		}
		return ensureSemicolon(stmt), nil
	case *model.Cast:
		stmt := fmt.Sprintf("CREATE CAST (%s AS %s)", v.SourceType, v.TargetType)
		if v.Function != "" {
			stmt += fmt.Sprintf(" WITH FUNCTION %s", v.Function)
		} else {
			stmt += " WITHOUT FUNCTION"
		}
		if v.Context != "" && v.Context != "EXPLICIT" {
			stmt += " AS " + v.Context
		}
		return ensureSemicolon(stmt), nil
	case *model.Language:
		trusted := ""
		if v.Trusted {
			trusted = "TRUSTED "
		}
		stmt := fmt.Sprintf("CREATE %sLANGUAGE %s HANDLER %s", trusted, quoteIdent(v.Name), v.HandlerFunc)
		if v.ValidatorFunc != "" {
			stmt += " VALIDATOR " + v.ValidatorFunc
		}
		return ensureSemicolon(stmt), nil
	case *model.EventTrigger:
		stmt := fmt.Sprintf("CREATE EVENT TRIGGER %s ON %s", quoteIdent(v.Name), v.Event)
		if len(v.Tags) > 0 {
			stmt += fmt.Sprintf(" WHEN TAG IN (%s)", quoteLiteralList(v.Tags))
		}
		stmt += " EXECUTE FUNCTION " + v.Function
		return ensureSemicolon(stmt), nil
	case *model.Operator:
		stmt := fmt.Sprintf("CREATE OPERATOR %s (PROCEDURE = %s", qualified(v.Schema, v.Name), v.Function)
		if v.LeftType != "" {
			stmt += ", LEFTARG = " + v.LeftType
		}
		if v.RightType != "" {
			stmt += ", RIGHTARG = " + v.RightType
		}
		if v.Commutator != "" {
			stmt += ", COMMUTATOR = " + v.Commutator
		}
		if v.Negator != "" {
			stmt += ", NEGATOR = " + v.Negator
		}
		stmt += ")"
		return ensureSemicolon(stmt), nil
	case *model.OperatorClass:
		dflt := ""
		if v.Default {
			dflt = "DEFAULT "
		}
		members := make([]string, 0, len(v.Operators)+len(v.Functions))
		for i, op := range v.Operators {
			members = append(members, fmt.Sprintf("OPERATOR %d %s", i+1, op))
		}
		for i, fn := range v.Functions {
			members = append(members, fmt.Sprintf("FUNCTION %d %s", i+1, fn))
		}
		stmt := fmt.Sprintf("CREATE OPERATOR CLASS %s %sFOR TYPE %s USING %s AS %s",
			qualified(v.Schema, v.Name), dflt, v.Type, v.IndexMethod, strings.Join(members, ", "))
		return ensureSemicolon(stmt), nil
	case *model.OperatorFamily:
		return ensureSemicolon(fmt.Sprintf("CREATE OPERATOR FAMILY %s USING %s", qualified(v.Schema, v.Name), v.IndexMethod)), nil
	case *model.TSParser:
		return ensureSemicolon(fmt.Sprintf(
			"CREATE TEXT SEARCH PARSER %s (START = %s, GETTOKEN = %s, END = %s, LEXTYPES = %s, HEADLINE = %s)",
			qualified(v.Schema, v.Name), v.StartFunc, v.TokenFunc, v.EndFunc, v.LexTypesFunc, v.HeadlineFunc)), nil
	case *model.TSDictionary:
		stmt := fmt.Sprintf("CREATE TEXT SEARCH DICTIONARY %s (TEMPLATE = %s", qualified(v.Schema, v.Name), v.Template)
		for _, k := range sortedMapKeys(v.Options) {
			stmt += fmt.Sprintf(", %s = %s", k, quoteLiteral(v.Options[k]))
		}
		stmt += ")"
		return ensureSemicolon(stmt), nil
	case *model.TSTemplate:
		return ensureSemicolon(fmt.Sprintf("CREATE TEXT SEARCH TEMPLATE %s (INIT = %s, LEXIZE = %s)",
			qualified(v.Schema, v.Name), v.InitFunc, v.LexizeFunc)), nil
	case *model.TSConfig:
		stmt := fmt.Sprintf("CREATE TEXT SEARCH CONFIGURATION %s (PARSER = %s)", qualified(v.Schema, v.Name), v.Parser)
		for _, tok := range sortedSliceMapKeys(v.Mappings) {
			stmt += fmt.Sprintf(";\nALTER TEXT SEARCH CONFIGURATION %s ADD MAPPING FOR %s WITH %s",
				qualified(v.Schema, v.Name), tok, strings.Join(v.Mappings[tok], ", "))
		}
		return ensureSemicolon(stmt), nil
	case *model.FDW:
		stmt := fmt.Sprintf("CREATE FOREIGN DATA WRAPPER %s", quoteIdent(v.Name))
		if v.Handler != "" {
			stmt += " HANDLER " + v.Handler
		}
		if v.Validator != "" {
			stmt += " VALIDATOR " + v.Validator
		}
		stmt += optionsClause(v.Options)
		return ensureSemicolon(stmt), nil
	case *model.ForeignServer:
		stmt := fmt.Sprintf("CREATE SERVER %s", quoteIdent(v.Name))
		if v.Type != "" {
			stmt += fmt.Sprintf(" TYPE %s", quoteLiteral(v.Type))
		}
		if v.Version != "" {
			stmt += fmt.Sprintf(" VERSION %s", quoteLiteral(v.Version))
		}
		stmt += fmt.Sprintf(" FOREIGN DATA WRAPPER %s", quoteIdent(v.FDWName))
		stmt += optionsClause(v.Options)
		return ensureSemicolon(stmt), nil
	case *model.UserMapping:
		stmt := fmt.Sprintf("CREATE USER MAPPING FOR %s SERVER %s", quoteIdent(v.User), quoteIdent(v.Server))
		stmt += optionsClause(v.Options)
		return ensureSemicolon(stmt), nil
	case *model.ForeignTable:
		cols := make([]string, 0, len(v.Columns))
		for _, c := range v.Columns {
			cols = append(cols, columnDef(c))
		}
		stmt := fmt.Sprintf("CREATE FOREIGN TABLE %s (\n  %s\n) SERVER %s",
			qualified(v.Schema, v.Name), strings.Join(cols, ",\n  "), quoteIdent(v.Server))
		stmt += optionsClause(v.Options)
		return ensureSemicolon(stmt), nil
	default:
		return "", fmt.Errorf("scheduler: createStmt: unsupported object kind %q", o.Kind())
	}
}

// dropStmt renders the DROP statement for one object.
func dropStmt(o model.Object) (string, error) {
	switch v := o.(type) {
	case *model.Schema:
		return ensureSemicolon(fmt.Sprintf("DROP SCHEMA %s", quoteIdent(v.Name))), nil
	case *model.Table:
		return ensureSemicolon(fmt.Sprintf("DROP TABLE %s", qualified(v.Schema, v.Name))), nil
	case *model.View:
		return ensureSemicolon(fmt.Sprintf("DROP VIEW %s", qualified(v.Schema, v.Name))), nil
	case *model.MatView:
		return ensureSemicolon(fmt.Sprintf("DROP MATERIALIZED VIEW %s", qualified(v.Schema, v.Name))), nil
	case *model.Sequence:
		return ensureSemicolon(fmt.Sprintf("DROP SEQUENCE %s", qualified(v.Schema, v.Name))), nil
	case *model.Function:
		return ensureSemicolon(fmt.Sprintf("DROP FUNCTION %s(%s)", qualified(v.Schema, v.Name), v.ArgTypes)), nil
	case *model.Aggregate:
		return ensureSemicolon(fmt.Sprintf("DROP AGGREGATE %s(%s)", qualified(v.Schema, v.Name), v.ArgTypes)), nil
	case *model.PrimaryKey:
		return ensureSemicolon(fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", qualified(v.Schema, v.Table), quoteIdent(v.Name))), nil
	case *model.CheckConstraint:
		return ensureSemicolon(fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", qualified(v.Schema, v.Table), quoteIdent(v.Name))), nil
	case *model.UniqueConstraint:
		return ensureSemicolon(fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", qualified(v.Schema, v.Table), quoteIdent(v.Name))), nil
	case *model.ForeignKey:
		return ensureSemicolon(fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", qualified(v.Schema, v.Table), quoteIdent(v.Name))), nil
	case *model.ExcludeConstraint:
		return ensureSemicolon(fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", qualified(v.Schema, v.Table), quoteIdent(v.Name))), nil
	case *model.Index:
		return ensureSemicolon(fmt.Sprintf("DROP INDEX %s", qualified(v.Schema, v.Name))), nil
	case *model.Trigger:
		return ensureSemicolon(fmt.Sprintf("DROP TRIGGER %s ON %s", quoteIdent(v.Name), qualified(v.Schema, v.Table))), nil
	case *model.Rule:
		return ensureSemicolon(fmt.Sprintf("DROP RULE %s ON %s", quoteIdent(v.Name), qualified(v.Schema, v.Table))), nil
	case *model.Type:
		return ensureSemicolon(fmt.Sprintf("DROP TYPE %s", qualified(v.Schema, v.Name))), nil
	case *model.Domain:
		return ensureSemicolon(fmt.Sprintf("DROP DOMAIN %s", qualified(v.Schema, v.Name))), nil
	case *model.Collation:
		return ensureSemicolon(fmt.Sprintf("DROP COLLATION %s", qualified(v.Schema, v.Name))), nil
	case *model.Conversion:
		return ensureSemicolon(fmt.Sprintf("DROP CONVERSION %s", qualified(v.Schema, v.Name))), nil
	case *model.Extension:
		return ensureSemicolon(fmt.Sprintf("DROP EXTENSION %s", quoteIdent(v.Name))), nil
	case *model.Cast:
		return ensureSemicolon(fmt.Sprintf("DROP CAST (%s AS %s)", v.SourceType, v.TargetType)), nil
	case *model.Language:
		return ensureSemicolon(fmt.Sprintf("DROP LANGUAGE %s", quoteIdent(v.Name))), nil
	case *model.EventTrigger:
		return ensureSemicolon(fmt.Sprintf("DROP EVENT TRIGGER %s", quoteIdent(v.Name))), nil
	case *model.Operator:
		return ensureSemicolon(fmt.Sprintf("DROP OPERATOR %s (%s, %s)", qualified(v.Schema, v.Name), orNone(v.LeftType), orNone(v.RightType))), nil
	case *model.OperatorClass:
		return ensureSemicolon(fmt.Sprintf("DROP OPERATOR CLASS %s USING %s", qualified(v.Schema, v.Name), v.IndexMethod)), nil
	case *model.OperatorFamily:
		return ensureSemicolon(fmt.Sprintf("DROP OPERATOR FAMILY %s USING %s", qualified(v.Schema, v.Name), v.IndexMethod)), nil
	case *model.TSParser:
		return ensureSemicolon(fmt.Sprintf("DROP TEXT SEARCH PARSER %s", qualified(v.Schema, v.Name))), nil
	case *model.TSDictionary:
		return ensureSemicolon(fmt.Sprintf("DROP TEXT SEARCH DICTIONARY %s", qualified(v.Schema, v.Name))), nil
	case *model.TSTemplate:
		return ensureSemicolon(fmt.Sprintf("DROP TEXT SEARCH TEMPLATE %s", qualified(v.Schema, v.Name))), nil
	case *model.TSConfig:
		return ensureSemicolon(fmt.Sprintf("DROP TEXT SEARCH CONFIGURATION %s", qualified(v.Schema, v.Name))), nil
	case *model.FDW:
		return ensureSemicolon(fmt.Sprintf("DROP FOREIGN DATA WRAPPER %s", quoteIdent(v.Name))), nil
	case *model.ForeignServer:
		return ensureSemicolon(fmt.Sprintf("DROP SERVER %s", quoteIdent(v.Name))), nil
	case *model.UserMapping:
		return ensureSemicolon(fmt.Sprintf("DROP USER MAPPING FOR %s SERVER %s", quoteIdent(v.User), quoteIdent(v.Server))), nil
	case *model.ForeignTable:
		return ensureSemicolon(fmt.Sprintf("DROP FOREIGN TABLE %s", qualified(v.Schema, v.Name))), nil
	default:
		return "", fmt.Errorf("scheduler: dropStmt: unsupported object kind %q", o.Kind())
	}
}

func createSequenceStmt(s *model.Sequence) string {
	stmt := fmt.Sprintf("CREATE SEQUENCE %s", qualified(s.Schema, s.Name))
	if s.DataType != "" {
		stmt += " AS " + s.DataType
	}
	stmt += fmt.Sprintf(" START WITH %d INCREMENT BY %d", s.StartValue, s.Increment)
	if s.MinValue != nil {
		stmt += fmt.Sprintf(" MINVALUE %d", *s.MinValue)
	}
	if s.MaxValue != nil {
		stmt += fmt.Sprintf(" MAXVALUE %d", *s.MaxValue)
	}
	if s.Cycle {
		stmt += " CYCLE"
	}
	return ensureSemicolon(stmt)
}

func createFunctionStmt(f *model.Function) string {
	stmt := fmt.Sprintf("CREATE FUNCTION %s(%s) RETURNS %s LANGUAGE %s",
		qualified(f.Schema, f.Name), f.Arguments, f.Returns, f.Language)
	switch f.Volatility {
	case "IMMUTABLE", "STABLE", "VOLATILE":
		stmt += " " + f.Volatility
	}
	if f.Strict {
		stmt += " STRICT"
	}
	if f.SecurityDefiner {
		stmt += " SECURITY DEFINER"
	}
	stmt += fmt.Sprintf(" AS $dbschema$\n%s\n$dbschema$", f.Source)
	return ensureSemicolon(stmt)
}

func createAggregateStmt(a *model.Aggregate) string {
	stmt := fmt.Sprintf("CREATE AGGREGATE %s(%s) (SFUNC = %s, STYPE = %s",
		qualified(a.Schema, a.Name), a.ArgTypes, a.StateFunc, a.StateType)
	if a.FinalFunc != "" {
		stmt += ", FINALFUNC = " + a.FinalFunc
	}
	if a.CombineFunc != "" {
		stmt += ", COMBINEFUNC = " + a.CombineFunc
	}
	if a.InitialCond != "" {
		stmt += ", INITCOND = " + quoteLiteral(a.InitialCond)
	}
	stmt += ")"
	return ensureSemicolon(stmt)
}

func createForeignKeyStmt(fk *model.ForeignKey) string {
	stmt := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
		qualified(fk.Schema, fk.Table), quoteIdent(fk.Name), quoteIdentList(fk.Columns),
		qualified(fk.ReferencedSchema, fk.ReferencedTable), quoteIdentList(fk.ReferencedColumns))
	if fk.MatchType != "" {
		stmt += " MATCH " + fk.MatchType
	}
	if fk.OnDelete != "" {
		stmt += " ON DELETE " + fk.OnDelete
	}
	if fk.OnUpdate != "" {
		stmt += " ON UPDATE " + fk.OnUpdate
	}
	if fk.Deferrable {
		stmt += " DEFERRABLE"
		if fk.InitiallyDeferred {
			stmt += " INITIALLY DEFERRED"
		}
	}
	return ensureSemicolon(stmt)
}

func createIndexStmt(idx *model.Index) string {
	unique := ""
	if idx.Unique {
		unique = "UNIQUE "
	}
	stmt := fmt.Sprintf("CREATE %sINDEX %s ON %s", unique, quoteIdent(idx.Name), qualified(idx.Schema, idx.Table))
	if idx.Method != "" {
		stmt += " USING " + idx.Method
	}
	stmt += fmt.Sprintf(" (%s)", quoteIdentList(idx.Columns))
	if idx.Predicate != "" {
		stmt += " WHERE " + idx.Predicate
	}
	if idx.Tablespace != "" {
		stmt += " TABLESPACE " + quoteIdent(idx.Tablespace)
	}
	return ensureSemicolon(stmt)
}

func createTypeStmt(t *model.Type) string {
	switch t.TypeOf {
	case model.TypeKindComposite:
		attrs := make([]string, 0, len(t.Attributes))
		for _, a := range t.Attributes {
			attrs = append(attrs, fmt.Sprintf("%s %s", quoteIdent(a.Name), a.Type))
		}
		return ensureSemicolon(fmt.Sprintf("CREATE TYPE %s AS (%s)", qualified(t.Schema, t.Name), strings.Join(attrs, ", ")))
	case model.TypeKindEnum:
		return ensureSemicolon(fmt.Sprintf("CREATE TYPE %s AS ENUM (%s)", qualified(t.Schema, t.Name), quoteLiteralList(t.EnumValues)))
	case model.TypeKindRange:
		return ensureSemicolon(fmt.Sprintf("CREATE TYPE %s AS RANGE (SUBTYPE = %s)", qualified(t.Schema, t.Name), t.Subtype))
	default:
		stmt := fmt.Sprintf("CREATE TYPE %s (INPUT = %s, OUTPUT = %s", qualified(t.Schema, t.Name), t.InputFunc, t.OutputFunc)
		if t.Internal != "" {
			stmt += ", INTERNALLENGTH = " + t.Internal
		}
		stmt += ")"
		return ensureSemicolon(stmt)
	}
}

func createDomainStmt(d *model.Domain) string {
	stmt := fmt.Sprintf("CREATE DOMAIN %s AS %s", qualified(d.Schema, d.Name), d.BaseType)
	if d.Default != nil {
		stmt += " DEFAULT " + *d.Default
	}
	if d.NotNull {
		stmt += " NOT NULL"
	}
	for _, name := range sortedMapKeys(d.Constraints) {
		stmt += fmt.Sprintf(" CONSTRAINT %s CHECK (%s)", quoteIdent(name), d.Constraints[name])
	}
	return ensureSemicolon(stmt)
}

func createCollationStmt(c *model.Collation) string {
	stmt := fmt.Sprintf("CREATE COLLATION %s (", qualified(c.Schema, c.Name))
	var parts []string
	if c.Provider != "" {
		parts = append(parts, "PROVIDER = "+c.Provider)
	}
	if c.LCCollate != "" {
		parts = append(parts, "LC_COLLATE = "+quoteLiteral(c.LCCollate))
	}
	if c.LCType != "" {
		parts = append(parts, "LC_CTYPE = "+quoteLiteral(c.LCType))
	}
	stmt += strings.Join(parts, ", ") + ")"
	return ensureSemicolon(stmt)
}

func optionsClause(opts map[string]string) string {
	if len(opts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(opts))
	for _, k := range sortedMapKeys(opts) {
		parts = append(parts, fmt.Sprintf("%s %s", k, quoteLiteral(opts[k])))
	}
	return fmt.Sprintf(" OPTIONS (%s)", strings.Join(parts, ", "))
}

func quoteIdentList(names []string) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = quoteIdent(n)
	}
	return strings.Join(out, ", ")
}

func quoteLiteralList(vals []string) string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = quoteLiteral(v)
	}
	return strings.Join(out, ", ")
}

func orNone(s string) string {
	if s == "" {
		return "NONE"
	}
	return s
}

func sortedMapKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedSliceMapKeys(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
