package ast

import (
	"fmt"
	"strings"
)

// Print returns a tree-like string representation of the AST for debugging
func Print(node Node) string {
	var sb strings.Builder
	printNode(&sb, node, 0)
	return sb.String()
}

func printNode(sb *strings.Builder, node Node, indent int) {
	if node == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *Module:
		sb.WriteString(prefix + "Module\n")
		for _, stmt := range n.Statements {
			printNode(sb, stmt, indent+1)
		}

	case *Function:
		modifiers := ""
		if n.IsPublic {
			modifiers = " (pub)"
		}
		sb.WriteString(fmt.Sprintf("%sFunction: %s%s\n", prefix, n.Name, modifiers))

		if len(n.Params) > 0 {
			sb.WriteString(fmt.Sprintf("%s  Params:\n", prefix))
			for _, p := range n.Params {
				printNode(sb, p, indent+2)
			}
		} else {
			sb.WriteString(fmt.Sprintf("%s  Params: none\n", prefix))
		}

		if n.ReturnType != nil {
			sb.WriteString(fmt.Sprintf("%s  Returns: %s\n", prefix, n.ReturnType.Name))
		}

		if n.Body != nil {
			sb.WriteString(fmt.Sprintf("%s  Body:\n", prefix))
			printNode(sb, n.Body, indent+2)
		}

	case *Param:
		typeName := "?"
		if n.Type != nil {
			typeName = n.Type.Name
		}
		sb.WriteString(fmt.Sprintf("%s%s: %s\n", prefix, n.Name, typeName))

	case *TypeRef:
		sb.WriteString(fmt.Sprintf("%sType: %s\n", prefix, n.Name))

	case *Block:
		label := "Block"
		if n.TrailingSemi {
			label = "Block (discarded)"
		}
		sb.WriteString(prefix + label + "\n")
		for _, e := range n.Exprs {
			printNode(sb, e, indent+1)
		}

	case *BoolLit:
		sb.WriteString(fmt.Sprintf("%sBool: %t\n", prefix, n.Value))

	case *IntLit:
		sb.WriteString(fmt.Sprintf("%sInt: %d\n", prefix, n.Value))

	case *Ident:
		sb.WriteString(fmt.Sprintf("%sIdent: %s\n", prefix, n.Name))

	case *CallExpr:
		sb.WriteString(fmt.Sprintf("%sCall: %s\n", prefix, n.Callee))
		for _, arg := range n.Args {
			printNode(sb, arg, indent+1)
		}

	case *LetExpr:
		if n.Type != nil {
			sb.WriteString(fmt.Sprintf("%sLet: %s: %s\n", prefix, n.Name, n.Type.Name))
		} else {
			sb.WriteString(fmt.Sprintf("%sLet: %s\n", prefix, n.Name))
		}
		printNode(sb, n.Value, indent+1)

	case *BinaryExpr:
		sb.WriteString(fmt.Sprintf("%sBinary: %s\n", prefix, n.Op))
		printNode(sb, n.Left, indent+1)
		printNode(sb, n.Right, indent+1)

	case *IfExpr:
		sb.WriteString(prefix + "If\n")
		sb.WriteString(prefix + "  Cond:\n")
		printNode(sb, n.Cond, indent+2)
		sb.WriteString(prefix + "  Then:\n")
		printNode(sb, n.Then, indent+2)
		sb.WriteString(prefix + "  Else:\n")
		printNode(sb, n.Else, indent+2)

	default:
		sb.WriteString(fmt.Sprintf("%s<unknown %T>\n", prefix, node))
	}
}
