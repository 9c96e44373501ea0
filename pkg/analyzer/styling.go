package analyzer

import (
	"fmt"
	"strings"

	"github.com/gnana997/uilens/pkg/ast"
)

// CategoryOrder lists the styling categories in tie-break order: when two
// categories score the same, the earlier one wins.
var CategoryOrder = []StylingType{
	StylingTailwindLike,
	StylingStyledComponentsLike,
	StylingEmotionLike,
	StylingVariantAuthoring,
	StylingUnknown,
}

// UtilityClassPrefixes are the substrings that mark a class list as
// utility-first.
var UtilityClassPrefixes = []string{
	"text-", "bg-", "p-", "m-", "flex-", "grid-", "w-", "h-",
	"rounded-", "border-", "shadow-", "transition-",
	"hover:", "focus:", "active:", "disabled:", "dark:", "light:",
}

// Scores added by each styling rule.
const (
	scoreVariantConfig      = 100
	scoreVariantUtility     = 50
	scoreTailwindImport     = 30
	scoreClassHelperImport  = 20
	scoreStyledImport       = 50
	scoreEmotionImport      = 50
	scoreGlobalCSSImport    = 15
	scoreUtilityClassName   = 25
	scoreStyledTemplate     = 30
	scoreEmotionCSSCall     = 30
	confidencePerIndicator  = 15
	runnerUpThreshold       = 50
	runnerUpConfidenceFloor = 60
	runnerUpConfidenceCeil  = 80
)

const (
	styledComponentsSource = "styled-components"
	emotionReactSource     = "@emotion/react"
)

// StylingLibraryClassifier guesses the component's styling approach by
// additive scoring over imports, className literals, styled templates, css()
// calls and the variant configs found earlier in the pipeline.
type StylingLibraryClassifier struct{}

func (*StylingLibraryClassifier) Name() string { return "styling-library-classifier" }

func (*StylingLibraryClassifier) Reset(result *ComponentResult) {
	result.StylingLibrary = StylingLibrary{Type: StylingUnknown, Indicators: []string{}}
}

// scoreboard accumulates a score and indicators per category.
type scoreboard struct {
	scores     map[StylingType]int
	indicators map[StylingType][]string
}

func newScoreboard() *scoreboard {
	return &scoreboard{
		scores:     make(map[StylingType]int),
		indicators: make(map[StylingType][]string),
	}
}

func (s *scoreboard) add(category StylingType, points int, indicator string) {
	s.scores[category] += points
	s.indicators[category] = append(s.indicators[category], indicator)
}

func (c *StylingLibraryClassifier) Analyze(root *ast.Node, result *ComponentResult) {
	board := newScoreboard()

	if len(result.VariantConfigs) > 0 {
		board.add(StylingVariantAuthoring, scoreVariantConfig, "Uses class-variance-authority (cva)")
		for _, cfg := range result.VariantConfigs {
			if hasUtilityClasses(cfg.Value) {
				board.add(StylingTailwindLike, scoreVariantUtility,
					fmt.Sprintf("Variant config %s uses Tailwind-like classes", cfg.VariableName))
			}
		}
	}

	ast.Walk(root, func(n *ast.Node) bool {
		switch n.Kind {
		case ast.KindImportDeclaration:
			scoreImport(board, n.Text)
		case ast.KindJSXAttribute:
			if n.Name != "className" {
				break
			}
			if value, ok := classNameLiteral(n.Value); ok && containsUtilityClass(value) {
				board.add(StylingTailwindLike, scoreUtilityClassName, "Uses Tailwind-like class: "+value)
			}
		case ast.KindTaggedTemplate:
			if tag := tagRoot(n.Tag); tag == "styled" || strings.HasSuffix(tag, "Styled") {
				board.add(StylingStyledComponentsLike, scoreStyledTemplate, "Uses styled tagged template")
			}
		case ast.KindCallExpression:
			if n.Callee.IsIdentifier("css") {
				board.add(StylingEmotionLike, scoreEmotionCSSCall, "Uses css() function")
			}
		}
		return true
	})

	result.StylingLibrary = board.decide()
}

func scoreImport(board *scoreboard, source string) {
	if strings.Contains(source, "tailwind") {
		board.add(StylingTailwindLike, scoreTailwindImport, "Imports "+source)
	}
	if strings.Contains(source, "clsx") || strings.Contains(source, "tailwind-merge") {
		board.add(StylingTailwindLike, scoreClassHelperImport, "Uses class helper "+source)
	}
	switch source {
	case styledComponentsSource:
		board.add(StylingStyledComponentsLike, scoreStyledImport, "Imports styled-components")
	case emotionReactSource:
		board.add(StylingEmotionLike, scoreEmotionImport, "Imports @emotion/react")
	}
	if strings.HasSuffix(source, ".css") && !strings.HasSuffix(source, ".module.css") {
		board.add(StylingTailwindLike, scoreGlobalCSSImport, "Imports global stylesheet "+source)
	}
}

// decide picks the highest-scoring category, breaking ties by CategoryOrder.
func (s *scoreboard) decide() StylingLibrary {
	winner, best := StylingUnknown, 0
	for _, category := range CategoryOrder {
		if s.scores[category] > best {
			winner, best = category, s.scores[category]
		}
	}
	if best == 0 {
		return StylingLibrary{Type: StylingUnknown, Confidence: 0, Indicators: []string{}}
	}

	indicators := append([]string{}, s.indicators[winner]...)
	confidence := min(100, best+len(indicators)*confidencePerIndicator)

	runnerUp, second := StylingUnknown, 0
	for _, category := range CategoryOrder {
		if category != winner && s.scores[category] > second {
			runnerUp, second = category, s.scores[category]
		}
	}
	if second > runnerUpThreshold {
		confidence = max(runnerUpConfidenceFloor, min(runnerUpConfidenceCeil, confidence))
		indicators = append(indicators, fmt.Sprintf("Also matches %s patterns (score: %d)", runnerUp, second))
	}

	return StylingLibrary{Type: winner, Confidence: confidence, Indicators: indicators}
}

// classNameLiteral returns a className value written as a string literal,
// directly or inside an expression container.
func classNameLiteral(v *ast.Node) (string, bool) {
	if v.Is(ast.KindJSXExpressionContainer) {
		v = v.Expression
	}
	if v.Is(ast.KindStringLiteral) {
		return v.Text, true
	}
	return "", false
}

func containsUtilityClass(s string) bool {
	for _, prefix := range UtilityClassPrefixes {
		if strings.Contains(s, prefix) {
			return true
		}
	}
	return false
}

func hasUtilityClasses(v VariantValue) bool {
	found := containsUtilityClass(v.Base)
	check := func(s string) {
		if !found && containsUtilityClass(s) {
			found = true
		}
	}
	Strings(v.Variants, check)
	Strings(v.DefaultVariants, check)
	Strings(v.CompoundVariants, check)
	return found
}

// tagRoot returns the leftmost identifier of a template tag:
// styled.div, styled(Button) and styled.div.attrs(...) all yield "styled".
func tagRoot(tag *ast.Node) string {
	for tag != nil {
		switch tag.Kind {
		case ast.KindIdentifier:
			return tag.Name
		case ast.KindMemberExpression:
			tag = tag.Object
		case ast.KindCallExpression:
			tag = tag.Callee
		default:
			return ""
		}
	}
	return ""
}
