// SPDX-License-Identifier: Apache-2.0

package scheduler

import (
	"fmt"

	"github.com/dbschema/dbschema/pkg/model"
)

// renameStmt renders the ALTER ... RENAME statement moving oldKey to
// newKey's name. Both keys share a kind (pkg/differ only ever pairs a
// rename against a same-kind object) and, except for the last path
// component, the same path.
func renameStmt(oldKey, newKey model.Key) (string, error) {
	if !oldKey.Kind.SupportsRename() {
		return "", model.UnsupportedCapabilityError{Key: oldKey, Capability: "rename"}
	}

	op, np := oldKey.Path, newKey.Path
	newName := newKey.Name()

	switch oldKey.Kind {
	case model.KindSchema:
		return ensureSemicolon(fmt.Sprintf("ALTER SCHEMA %s RENAME TO %s", quoteIdent(op[0]), quoteIdent(newName))), nil
	case model.KindTable:
		return ensureSemicolon(fmt.Sprintf("ALTER TABLE %s RENAME TO %s", qualified(op[0], op[1]), quoteIdent(newName))), nil
	case model.KindColumn:
		return ensureSemicolon(fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s",
			qualified(op[0], op[1]), quoteIdent(op[2]), quoteIdent(newName))), nil
	case model.KindView:
		return ensureSemicolon(fmt.Sprintf("ALTER VIEW %s RENAME TO %s", qualified(op[0], op[1]), quoteIdent(newName))), nil
	case model.KindMatView:
		return ensureSemicolon(fmt.Sprintf("ALTER MATERIALIZED VIEW %s RENAME TO %s", qualified(op[0], op[1]), quoteIdent(newName))), nil
	case model.KindSequence:
		return ensureSemicolon(fmt.Sprintf("ALTER SEQUENCE %s RENAME TO %s", qualified(op[0], op[1]), quoteIdent(newName))), nil
	case model.KindDomain:
		return ensureSemicolon(fmt.Sprintf("ALTER DOMAIN %s RENAME TO %s", qualified(op[0], op[1]), quoteIdent(newName))), nil
	case model.KindBaseType:
		return ensureSemicolon(fmt.Sprintf("ALTER TYPE %s RENAME TO %s", qualified(op[0], op[1]), quoteIdent(newName))), nil
	case model.KindCollation:
		return ensureSemicolon(fmt.Sprintf("ALTER COLLATION %s RENAME TO %s", qualified(op[0], op[1]), quoteIdent(newName))), nil
	case model.KindConversion:
		return ensureSemicolon(fmt.Sprintf("ALTER CONVERSION %s RENAME TO %s", qualified(op[0], op[1]), quoteIdent(newName))), nil
	case model.KindForeignTable:
		return ensureSemicolon(fmt.Sprintf("ALTER FOREIGN TABLE %s RENAME TO %s", qualified(op[0], op[1]), quoteIdent(newName))), nil
	case model.KindCheckConstraint, model.KindUniqueConstraint, model.KindForeignKey, model.KindExcludeConstraint:
		return ensureSemicolon(fmt.Sprintf("ALTER TABLE %s RENAME CONSTRAINT %s TO %s",
			qualified(op[0], op[1]), quoteIdent(op[2]), quoteIdent(newName))), nil
	case model.KindRule:
		return ensureSemicolon(fmt.Sprintf("ALTER RULE %s ON %s RENAME TO %s",
			quoteIdent(op[2]), qualified(op[0], op[1]), quoteIdent(newName))), nil
	case model.KindIndex:
		return ensureSemicolon(fmt.Sprintf("ALTER INDEX %s RENAME TO %s", qualified(op[0], op[2]), quoteIdent(newName))), nil
	case model.KindTrigger:
		return ensureSemicolon(fmt.Sprintf("ALTER TRIGGER %s ON %s RENAME TO %s",
			quoteIdent(op[2]), qualified(op[0], op[1]), quoteIdent(newName))), nil
	case model.KindFunction:
		return ensureSemicolon(fmt.Sprintf("ALTER FUNCTION %s(%s) RENAME TO %s",
			qualified(op[0], op[1]), op[2], quoteIdent(newName))), nil
	case model.KindAggregate:
		return ensureSemicolon(fmt.Sprintf("ALTER AGGREGATE %s(%s) RENAME TO %s",
			qualified(op[0], op[1]), op[2], quoteIdent(newName))), nil
	case model.KindEventTrigger:
		return ensureSemicolon(fmt.Sprintf("ALTER EVENT TRIGGER %s RENAME TO %s", quoteIdent(op[0]), quoteIdent(newName))), nil
	case model.KindLanguage:
		return ensureSemicolon(fmt.Sprintf("ALTER LANGUAGE %s RENAME TO %s", quoteIdent(op[0]), quoteIdent(newName))), nil
	case model.KindTSParser:
		return ensureSemicolon(fmt.Sprintf("ALTER TEXT SEARCH PARSER %s RENAME TO %s", qualified(op[0], op[1]), quoteIdent(newName))), nil
	case model.KindTSDictionary:
		return ensureSemicolon(fmt.Sprintf("ALTER TEXT SEARCH DICTIONARY %s RENAME TO %s", qualified(op[0], op[1]), quoteIdent(newName))), nil
	case model.KindTSTemplate:
		return ensureSemicolon(fmt.Sprintf("ALTER TEXT SEARCH TEMPLATE %s RENAME TO %s", qualified(op[0], op[1]), quoteIdent(newName))), nil
	case model.KindTSConfiguration:
		return ensureSemicolon(fmt.Sprintf("ALTER TEXT SEARCH CONFIGURATION %s RENAME TO %s", qualified(op[0], op[1]), quoteIdent(newName))), nil
	case model.KindForeignDataWraper:
		return ensureSemicolon(fmt.Sprintf("ALTER FOREIGN DATA WRAPPER %s RENAME TO %s", quoteIdent(op[0]), quoteIdent(newName))), nil
	case model.KindForeignServer:
		return ensureSemicolon(fmt.Sprintf("ALTER SERVER %s RENAME TO %s", quoteIdent(op[0]), quoteIdent(newName))), nil
	default:
		_ = np
		return "", model.UnsupportedCapabilityError{Key: oldKey, Capability: "rename"}
	}
}

// grantTarget renders the "<OBJECT TYPE> <name>" fragment GRANT/REVOKE and
// COMMENT ON both need, for every privileged or commentable kind.
func grantTarget(o model.Object) (string, error) {
	switch v := o.(type) {
	case *model.Schema:
		return "SCHEMA " + quoteIdent(v.Name), nil
	case *model.Table:
		return "TABLE " + qualified(v.Schema, v.Name), nil
	case *model.Column:
		return fmt.Sprintf("TABLE %s", qualified(v.Schema, v.Table)), nil
	case *model.View:
		return "TABLE " + qualified(v.Schema, v.Name), nil
	case *model.MatView:
		return "MATERIALIZED VIEW " + qualified(v.Schema, v.Name), nil
	case *model.Sequence:
		return "SEQUENCE " + qualified(v.Schema, v.Name), nil
	case *model.Function:
		return fmt.Sprintf("FUNCTION %s(%s)", qualified(v.Schema, v.Name), v.ArgTypes), nil
	case *model.Aggregate:
		return fmt.Sprintf("AGGREGATE %s(%s)", qualified(v.Schema, v.Name), v.ArgTypes), nil
	case *model.Domain:
		return "DOMAIN " + qualified(v.Schema, v.Name), nil
	case *model.Type:
		return "TYPE " + qualified(v.Schema, v.Name), nil
	case *model.ForeignServer:
		return "FOREIGN SERVER " + quoteIdent(v.Name), nil
	case *model.FDW:
		return "FOREIGN DATA WRAPPER " + quoteIdent(v.Name), nil
	case *model.ForeignTable:
		return "FOREIGN TABLE " + qualified(v.Schema, v.Name), nil
	case *model.PrimaryKey:
		return fmt.Sprintf("CONSTRAINT %s ON %s", quoteIdent(v.Name), qualified(v.Schema, v.Table)), nil
	case *model.CheckConstraint:
		return fmt.Sprintf("CONSTRAINT %s ON %s", quoteIdent(v.Name), qualified(v.Schema, v.Table)), nil
	case *model.UniqueConstraint:
		return fmt.Sprintf("CONSTRAINT %s ON %s", quoteIdent(v.Name), qualified(v.Schema, v.Table)), nil
	case *model.ForeignKey:
		return fmt.Sprintf("CONSTRAINT %s ON %s", quoteIdent(v.Name), qualified(v.Schema, v.Table)), nil
	case *model.Index:
		return "INDEX " + qualified(v.Schema, v.Name), nil
	case *model.Trigger:
		return fmt.Sprintf("TRIGGER %s ON %s", quoteIdent(v.Name), qualified(v.Schema, v.Table)), nil
	case *model.Rule:
		return fmt.Sprintf("RULE %s ON %s", quoteIdent(v.Name), qualified(v.Schema, v.Table)), nil
	case *model.Collation:
		return "COLLATION " + qualified(v.Schema, v.Name), nil
	case *model.Conversion:
		return "CONVERSION " + qualified(v.Schema, v.Name), nil
	case *model.Extension:
		return "EXTENSION " + quoteIdent(v.Name), nil
	case *model.Cast:
		return fmt.Sprintf("CAST (%s AS %s)", v.SourceType, v.TargetType), nil
	case *model.Language:
		return "LANGUAGE " + quoteIdent(v.Name), nil
	case *model.EventTrigger:
		return "EVENT TRIGGER " + quoteIdent(v.Name), nil
	case *model.Operator:
		return fmt.Sprintf("OPERATOR %s (%s, %s)", qualified(v.Schema, v.Name), orNone(v.LeftType), orNone(v.RightType)), nil
	case *model.OperatorClass:
		return fmt.Sprintf("OPERATOR CLASS %s USING %s", qualified(v.Schema, v.Name), v.IndexMethod), nil
	case *model.OperatorFamily:
		return fmt.Sprintf("OPERATOR FAMILY %s USING %s", qualified(v.Schema, v.Name), v.IndexMethod), nil
	case *model.TSParser:
		return "TEXT SEARCH PARSER " + qualified(v.Schema, v.Name), nil
	case *model.TSDictionary:
		return "TEXT SEARCH DICTIONARY " + qualified(v.Schema, v.Name), nil
	case *model.TSTemplate:
		return "TEXT SEARCH TEMPLATE " + qualified(v.Schema, v.Name), nil
	case *model.TSConfig:
		return "TEXT SEARCH CONFIGURATION " + qualified(v.Schema, v.Name), nil
	default:
		return "", fmt.Errorf("scheduler: no GRANT/COMMENT target for kind %q", o.Kind())
	}
}

func commentStmt(o model.Object, comment string) (string, error) {
	target, err := grantTarget(o)
	if err != nil {
		return "", err
	}
	if c, ok := o.(*model.Column); ok {
		target = fmt.Sprintf("COLUMN %s.%s", qualified(c.Schema, c.Table), quoteIdent(c.Name))
	}
	if comment == "" {
		return ensureSemicolon(fmt.Sprintf("COMMENT ON %s IS NULL", target)), nil
	}
	return ensureSemicolon(fmt.Sprintf("COMMENT ON %s IS %s", target, quoteLiteral(comment))), nil
}

func grantRevokeStmts(o model.Object, grants, revokes []model.Privilege) ([]string, error) {
	target, err := grantTarget(o)
	if err != nil {
		return nil, err
	}
	column := ""
	if c, ok := o.(*model.Column); ok {
		column = fmt.Sprintf("(%s) ", quoteIdent(c.Name))
	}

	var out []string
	for _, p := range revokes {
		out = append(out, ensureSemicolon(fmt.Sprintf("REVOKE %s %sON %s FROM %s", p.Privilege, column, target, quoteIdent(p.Grantee))))
	}
	for _, p := range grants {
		stmt := fmt.Sprintf("GRANT %s %sON %s TO %s", p.Privilege, column, target, quoteIdent(p.Grantee))
		if p.Grantable {
			stmt += " WITH GRANT OPTION"
		}
		out = append(out, ensureSemicolon(stmt))
	}
	return out, nil
}
