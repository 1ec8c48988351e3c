// Package translator converts natural-language phrases into structured query
// intents with executable SQL.
package translator

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"nlquery/internal/models"
)

// rule pairs a phrase pattern with a builder producing the intent for its
// captures. Rules are tried in order and the first match wins.
type rule struct {
	pattern *regexp.Regexp
	build   func(m []string) *models.Intent
}

var rules = []rule{
	{
		pattern: regexp.MustCompile(`sales (in|from) (.*)`),
		build: func(m []string) *models.Intent {
			timePeriod := strings.TrimSpace(m[2])
			where := periodFilter(timePeriod)

			return &models.Intent{
				QueryType:  models.QueryTypeSalesReport,
				Parameters: map[string]interface{}{"timePeriod": timePeriod},
				SQL: fmt.Sprintf(`
              SELECT
                p.name as product_name,
                s.quantity,
                s.total_amount,
                s.sale_date
              FROM sales s
              JOIN products p ON s.product_id = p.id
              %s
              ORDER BY s.sale_date DESC
            `, where),
				Explanation: fmt.Sprintf("This query retrieves sales information for %s, including product name, quantity sold, total amount, and sale date.", timePeriod),
			}
		},
	},
	{
		// Lazy product capture so trailing phrases like "do we have" stay
		// out of the product name.
		pattern: regexp.MustCompile(`(how many|inventory|stock) (of )?(.*?) (do we have|available|in stock)`),
		build: func(m []string) *models.Intent {
			return inventoryIntent(strings.TrimSpace(m[3]))
		},
	},
	{
		pattern: regexp.MustCompile(`(how many|inventory|stock) (?:of )?(.*)`),
		build: func(m []string) *models.Intent {
			return inventoryIntent(strings.TrimSpace(m[2]))
		},
	},
	{
		pattern: regexp.MustCompile(`(what are|show me|list) (the )?top (\d+) (products|selling products)`),
		build: func(m []string) *models.Intent {
			limit, err := strconv.Atoi(m[3])
			if err != nil || limit == 0 {
				limit = 5
			}

			return &models.Intent{
				QueryType:  models.QueryTypeTopProducts,
				Parameters: map[string]interface{}{"limit": limit},
				SQL: fmt.Sprintf(`
              SELECT
                p.name,
                SUM(s.quantity) as total_quantity_sold,
                SUM(s.total_amount) as total_revenue
              FROM sales s
              JOIN products p ON s.product_id = p.id
              GROUP BY p.name
              ORDER BY total_quantity_sold DESC
              LIMIT %d
            `, limit),
				Explanation: fmt.Sprintf("This query identifies the top %d selling products based on quantity sold, showing product name, total quantity sold, and total revenue generated.", limit),
			}
		},
	},
	{
		pattern: regexp.MustCompile(`(what is|show me|calculate) (the )?(revenue|total revenue|sales) (in|from|for) (.*)`),
		build: func(m []string) *models.Intent {
			timePeriod := strings.TrimSpace(m[5])
			where := periodFilter(timePeriod)

			return &models.Intent{
				QueryType:  models.QueryTypeRevenueReport,
				Parameters: map[string]interface{}{"timePeriod": timePeriod},
				SQL: fmt.Sprintf(`
              SELECT
                SUM(total_amount) as total_revenue,
                COUNT(*) as transaction_count,
                SUM(quantity) as items_sold
              FROM sales
              %s
            `, where),
				Explanation: fmt.Sprintf("This query calculates the total revenue for %s, along with the number of transactions and total items sold.", timePeriod),
			}
		},
	},
	{
		pattern: regexp.MustCompile(`(who are|show me|list) (the )?(customers|clients) (from|in) (.*)`),
		build: func(m []string) *models.Intent {
			location := strings.TrimSpace(m[5])

			return &models.Intent{
				QueryType:  models.QueryTypeCustomerList,
				Parameters: map[string]interface{}{"location": location},
				SQL: fmt.Sprintf(`
              SELECT
                name,
                email,
                location,
                joined_date
              FROM customers
              WHERE location ILIKE '%%%s%%'
              ORDER BY joined_date DESC
            `, escapeLiteral(location)),
				Explanation: fmt.Sprintf("This query retrieves a list of customers from %s, showing their name, email, location, and when they joined.", location),
			}
		},
	},
	{
		pattern: regexp.MustCompile(`(.*)`),
		build: func(m []string) *models.Intent {
			return &models.Intent{
				QueryType:  models.QueryTypeUnrecognized,
				Parameters: map[string]interface{}{},
				SQL: `
              SELECT
                'Cannot parse query' as message,
                'Please try a different query' as suggestion
            `,
				Explanation: "The natural language query could not be interpreted. Please try rephrasing your question.",
				Error:       "Unrecognized query pattern",
			}
		},
	},
}

// Translate converts one natural-language phrase into an Intent. Matching is
// case-insensitive; translation failure is reported in the intent, not as an
// error.
func Translate(query string) *models.Intent {
	lowered := strings.ToLower(query)

	for _, r := range rules {
		if m := r.pattern.FindStringSubmatch(lowered); m != nil {
			return r.build(m)
		}
	}

	// Unreachable while the catch-all rule is present.
	return &models.Intent{
		QueryType:   models.QueryTypeError,
		Parameters:  map[string]interface{}{},
		SQL:         `SELECT 'Unsupported query' as message`,
		Explanation: "The query could not be processed.",
		Error:       "Failed to parse query",
	}
}

// Explain describes how a phrase would be translated without executing it.
func Explain(query string) *models.Explanation {
	intent := Translate(query)

	return &models.Explanation{
		OriginalQuery: query,
		InterpretedAs: intent.QueryType,
		Parameters:    intent.Parameters,
		Explanation:   intent.Explanation,
		SQLQuery:      NormalizeSQL(intent.SQL),
	}
}

// Validate reports whether a phrase can be processed.
func Validate(query string) *models.Validation {
	intent := Translate(query)
	valid := intent.QueryType.IsRecognized()

	features := []string{}
	if valid {
		for k := range intent.Parameters {
			features = append(features, k)
		}
		sort.Strings(features)
	}

	feedback := "This query can be processed."
	if !valid {
		feedback = "This query cannot be processed. Please try a different format or topic."
	}

	return &models.Validation{
		Valid:             valid,
		QueryType:         intent.QueryType,
		SupportedFeatures: features,
		Feedback:          feedback,
	}
}

// NormalizeSQL collapses whitespace runs so generated SQL reads as one line.
func NormalizeSQL(sql string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(sql, " "))
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func inventoryIntent(product string) *models.Intent {
	where := ""
	filtered := product != "products" && product != ""
	if filtered {
		where = fmt.Sprintf(`WHERE name ILIKE '%%%s%%'`, escapeLiteral(product))
	}

	related := ""
	if product != "products" {
		related = fmt.Sprintf(" related to %q", product)
	}

	return &models.Intent{
		QueryType:  models.QueryTypeInventoryCheck,
		Parameters: map[string]interface{}{"product": product},
		SQL: fmt.Sprintf(`
              SELECT
                name,
                category,
                inventory,
                price
              FROM products
              %s
              ORDER BY inventory DESC
            `, where),
		Explanation: fmt.Sprintf("This query checks the current inventory levels for products%s, including product name, category, and available quantity.", related),
	}
}

// periodFilter maps a free-form time period onto a sale_date restriction.
// Unknown periods return no filter, which means all sales.
func periodFilter(timePeriod string) string {
	switch {
	case strings.Contains(timePeriod, "last month"):
		return `WHERE sale_date >= CURRENT_DATE + INTERVAL '-1 month'`
	case strings.Contains(timePeriod, "last year"):
		return `WHERE sale_date >= CURRENT_DATE + INTERVAL '-1 year'`
	case strings.Contains(timePeriod, "jan"):
		return `WHERE to_char(sale_date, 'YYYY-MM') = '2025-01'`
	case strings.Contains(timePeriod, "feb"):
		return `WHERE to_char(sale_date, 'YYYY-MM') = '2025-02'`
	case strings.Contains(timePeriod, "mar"):
		return `WHERE to_char(sale_date, 'YYYY-MM') = '2025-03'`
	default:
		return ""
	}
}

// escapeLiteral doubles single quotes for interpolation into a SQL string
// literal.
func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
