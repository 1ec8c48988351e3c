// Package analyzer computes statistical summaries and chart descriptors over
// query result rows.
package analyzer

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"nlquery/internal/models"
)

// Summarize builds the analysis for one result set. Rows are the generic
// column maps produced by query execution. An empty result set yields an
// empty insight list and no visualization regardless of query type.
func Summarize(queryType models.QueryType, rows []map[string]interface{}) *models.Analysis {
	analysis := &models.Analysis{
		Summary:  fmt.Sprintf("Analysis of %d results:", len(rows)),
		Insights: []string{},
	}

	if len(rows) == 0 {
		return analysis
	}

	switch queryType {
	case models.QueryTypeSalesReport:
		summarizeSales(analysis, rows)
	case models.QueryTypeInventoryCheck:
		summarizeInventory(analysis, rows)
	case models.QueryTypeTopProducts:
		summarizeTopProducts(analysis, rows)
	case models.QueryTypeRevenueReport:
		summarizeRevenue(analysis, rows)
	case models.QueryTypeCustomerList:
		summarizeCustomers(analysis, rows)
	default:
		analysis.Insights = []string{
			fmt.Sprintf("Query returned %d results", len(rows)),
		}
	}

	return analysis
}

func summarizeSales(analysis *models.Analysis, rows []map[string]interface{}) {
	var totalSales float64
	var totalItems int
	labels := make([]string, 0, len(rows))
	data := make([]float64, 0, len(rows))

	for _, row := range rows {
		amount := toFloat(row["total_amount"])
		totalSales += amount
		totalItems += toInt(row["quantity"])
		labels = append(labels, toString(row["product_name"]))
		data = append(data, amount)
	}

	avgOrderValue := totalSales / float64(len(rows))

	analysis.Insights = []string{
		fmt.Sprintf("Total sales: $%.2f", totalSales),
		fmt.Sprintf("Total items sold: %d", totalItems),
		fmt.Sprintf("Average order value: $%.2f", avgOrderValue),
		fmt.Sprintf("Most recent sale: %s", toString(rows[0]["sale_date"])),
	}
	analysis.Visualization = &models.Visualization{
		Type:   models.VisualizationBar,
		Title:  "Sales by Product",
		Labels: labels,
		Data:   data,
	}
}

func summarizeInventory(analysis *models.Analysis, rows []map[string]interface{}) {
	var totalItems, lowStock int
	var totalPrice float64
	categoryTotals := map[string]float64{}
	categories := []string{}

	for _, row := range rows {
		inventory := toInt(row["inventory"])
		totalItems += inventory
		if inventory < 10 {
			lowStock++
		}
		totalPrice += toFloat(row["price"])

		category := toString(row["category"])
		if _, seen := categoryTotals[category]; !seen {
			categories = append(categories, category)
		}
		categoryTotals[category] += float64(inventory)
	}

	data := make([]float64, 0, len(categories))
	for _, category := range categories {
		data = append(data, categoryTotals[category])
	}

	analysis.Insights = []string{
		fmt.Sprintf("Total inventory: %d items", totalItems),
		fmt.Sprintf("Categories represented: %d", len(categories)),
		fmt.Sprintf("Low stock items (< 10): %d", lowStock),
		fmt.Sprintf("Average price: $%.2f", totalPrice/float64(len(rows))),
	}
	analysis.Visualization = &models.Visualization{
		Type:   models.VisualizationPie,
		Title:  "Inventory by Category",
		Labels: categories,
		Data:   data,
	}
}

func summarizeTopProducts(analysis *models.Analysis, rows []map[string]interface{}) {
	var totalSold int
	var totalRevenue float64
	labels := make([]string, 0, len(rows))
	data := make([]float64, 0, len(rows))

	for _, row := range rows {
		sold := toInt(row["total_quantity_sold"])
		totalSold += sold
		totalRevenue += toFloat(row["total_revenue"])
		labels = append(labels, toString(row["name"]))
		data = append(data, float64(sold))
	}

	topShare := 0.0
	if totalSold > 0 {
		topShare = float64(toInt(rows[0]["total_quantity_sold"])) / float64(totalSold) * 100
	}

	analysis.Insights = []string{
		fmt.Sprintf("Top product: %s", toString(rows[0]["name"])),
		fmt.Sprintf("Total quantity sold: %d items", totalSold),
		fmt.Sprintf("Total revenue: $%.2f", totalRevenue),
		fmt.Sprintf("Top product accounts for %.2f%% of sales", topShare),
	}
	analysis.Visualization = &models.Visualization{
		Type:   models.VisualizationBar,
		Title:  "Top Products by Quantity Sold",
		Labels: labels,
		Data:   data,
	}
}

func summarizeRevenue(analysis *models.Analysis, rows []map[string]interface{}) {
	row := rows[0]
	totalRevenue := toFloat(row["total_revenue"])
	transactions := toInt(row["transaction_count"])
	itemsSold := toInt(row["items_sold"])

	avgPerTransaction := 0.0
	if transactions > 0 {
		avgPerTransaction = totalRevenue / float64(transactions)
	}

	analysis.Insights = []string{
		fmt.Sprintf("Total revenue: $%.2f", totalRevenue),
		fmt.Sprintf("Number of transactions: %d", transactions),
		fmt.Sprintf("Items sold: %d", itemsSold),
		fmt.Sprintf("Average revenue per transaction: $%.2f", avgPerTransaction),
	}
	analysis.Visualization = &models.Visualization{
		Type:  models.VisualizationNumber,
		Title: "Revenue Overview",
		Value: fmt.Sprintf("$%.2f", totalRevenue),
	}
}

func summarizeCustomers(analysis *models.Analysis, rows []map[string]interface{}) {
	sorted := make([]map[string]interface{}, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return toTime(sorted[i]["joined_date"]).Before(toTime(sorted[j]["joined_date"]))
	})

	first := sorted[0]
	latest := sorted[len(sorted)-1]
	timespan := toTime(latest["joined_date"]).Sub(toTime(first["joined_date"]))
	days := int(math.Round(timespan.Hours() / 24))

	analysis.Insights = []string{
		fmt.Sprintf("Total customers: %d", len(rows)),
		fmt.Sprintf("Most recent customer: %s", toString(latest["name"])),
		fmt.Sprintf("First customer: %s", toString(first["name"])),
		fmt.Sprintf("Customer acquisition timespan: %d days", days),
	}
	analysis.Visualization = &models.Visualization{
		Type:   models.VisualizationLine,
		Title:  "Customer Growth",
		Labels: []string{"Initial", "Current"},
		Data:   []float64{1, float64(len(rows))},
	}
}

// Database drivers and JSON decoding hand back numbers in several widths, so
// the coercions below accept all of them.

func toFloat(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case []byte:
		f, _ := strconv.ParseFloat(string(val), 64)
		return f
	case string:
		f, _ := strconv.ParseFloat(val, 64)
		return f
	default:
		return 0
	}
}

func toInt(v interface{}) int {
	switch val := v.(type) {
	case int:
		return val
	case int32:
		return int(val)
	case int64:
		return int(val)
	case float64:
		return int(val)
	case float32:
		return int(val)
	case []byte:
		i, _ := strconv.Atoi(string(val))
		return i
	case string:
		i, _ := strconv.Atoi(val)
		return i
	default:
		return 0
	}
}

func toString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.Format("2006-01-02")
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

func toTime(v interface{}) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case string:
		if t, err := time.Parse("2006-01-02", val); err == nil {
			return t
		}
		if t, err := time.Parse(time.RFC3339, val); err == nil {
			return t
		}
	case []byte:
		return toTime(string(val))
	}
	return time.Time{}
}
