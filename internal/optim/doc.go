// Package optim searches parameter grids for the best pulse settings.
package optim
