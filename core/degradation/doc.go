// Package degradation computes wear metrics from a static engine sensor
// dataset in the NASA CMAPSS column layout. For each unit it derives a
// synthetic remaining-useful-life proxy per row and an ordinary
// least-squares trend slope per sensor, aggregated into a Summary. The
// analysis is stateless and shares nothing with the streaming core.
package degradation
