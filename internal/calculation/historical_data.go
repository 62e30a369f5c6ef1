package calculation

// HistoricalDatasetVersion identifies the built-in table. Bump it whenever a value changes.
const HistoricalDatasetVersion = "2025.1"

// builtinHistory holds annual nominal percents: S&P 500 total return, 10-year
// Treasury bond return, 3-month T-bill return and CPI-U inflation.
// Source: NYU Stern (Damodaran) historical returns and BLS CPI, rounded.
var builtinHistory = []historyRow{
	// year, stocks, bonds, cash, inflation
	{1928, 43.81, 0.84, 3.08, -1.7},
	{1929, -8.30, 4.20, 3.16, 0.0},
	{1930, -25.12, 4.54, 4.55, -2.3},
	{1931, -43.84, -2.56, 2.31, -9.0},
	{1932, -8.64, 8.79, 1.07, -9.9},
	{1933, 49.98, 1.86, 0.96, -5.1},
	{1934, -1.19, 7.96, 0.28, 3.1},
	{1935, 46.74, 4.47, 0.17, 2.2},
	{1936, 31.94, 5.02, 0.17, 1.5},
	{1937, -35.34, 1.38, 0.28, 3.6},
	{1938, 29.28, 4.21, 0.07, -2.1},
	{1939, -1.10, 4.41, 0.05, -1.4},
	{1940, -10.67, 5.40, 0.04, 0.7},
	{1941, -12.77, -2.02, 0.13, 5.0},
	{1942, 19.17, 2.29, 0.34, 10.9},
	{1943, 25.06, 2.49, 0.38, 6.1},
	{1944, 19.03, 2.58, 0.38, 1.7},
	{1945, 35.82, 3.80, 0.38, 2.3},
	{1946, -8.43, 3.13, 0.38, 8.3},
	{1947, 5.20, 0.92, 0.60, 14.4},
	{1948, 5.70, 1.95, 1.05, 8.1},
	{1949, 18.30, 4.66, 1.12, -1.2},
	{1950, 30.81, 0.43, 1.20, 1.3},
	{1951, 23.68, -0.30, 1.52, 7.9},
	{1952, 18.15, 2.27, 1.72, 1.9},
	{1953, -1.21, 4.14, 1.89, 0.8},
	{1954, 52.56, 3.29, 0.94, 0.7},
	{1955, 32.60, -1.34, 1.72, -0.4},
	{1956, 7.44, -2.26, 2.62, 1.5},
	{1957, -10.46, 6.80, 3.22, 3.3},
	{1958, 43.72, -2.10, 1.77, 2.8},
	{1959, 12.06, -2.65, 3.39, 0.7},
	{1960, 0.34, 11.64, 2.88, 1.7},
	{1961, 26.64, 2.06, 2.35, 1.0},
	{1962, -8.81, 5.69, 2.77, 1.0},
	{1963, 22.61, 1.68, 3.16, 1.3},
	{1964, 16.42, 3.73, 3.55, 1.3},
	{1965, 12.40, 0.72, 3.95, 1.6},
	{1966, -9.97, 2.91, 4.86, 2.9},
	{1967, 23.80, -1.58, 4.29, 3.1},
	{1968, 10.81, 3.27, 5.34, 4.2},
	{1969, -8.24, -5.01, 6.67, 5.5},
	{1970, 3.56, 16.75, 6.39, 5.7},
	{1971, 14.22, 9.79, 4.33, 4.4},
	{1972, 18.76, 2.82, 4.06, 3.2},
	{1973, -14.31, 3.66, 7.04, 6.2},
	{1974, -25.90, 1.99, 7.85, 11.0},
	{1975, 37.00, 3.61, 5.79, 9.1},
	{1976, 23.83, 15.98, 4.98, 5.8},
	{1977, -6.98, 1.29, 5.26, 6.5},
	{1978, 6.51, -0.78, 7.18, 7.6},
	{1979, 18.52, 0.67, 10.05, 11.3},
	{1980, 31.74, -2.99, 11.39, 13.5},
	{1981, -4.70, 8.20, 14.04, 10.3},
	{1982, 20.42, 32.81, 10.60, 6.2},
	{1983, 22.34, 3.20, 8.62, 3.2},
	{1984, 6.15, 13.73, 9.54, 4.3},
	{1985, 31.24, 25.71, 7.47, 3.6},
	{1986, 18.49, 24.28, 5.97, 1.9},
	{1987, 5.81, -4.96, 5.78, 3.6},
	{1988, 16.54, 8.22, 6.67, 4.1},
	{1989, 31.48, 17.69, 8.11, 4.8},
	{1990, -3.06, 6.24, 7.50, 5.4},
	{1991, 30.23, 15.00, 5.38, 4.2},
	{1992, 7.49, 9.36, 3.43, 3.0},
	{1993, 9.97, 14.21, 3.00, 3.0},
	{1994, 1.33, -8.04, 4.25, 2.6},
	{1995, 37.20, 23.48, 5.49, 2.8},
	{1996, 22.68, 1.43, 5.01, 3.0},
	{1997, 33.10, 9.94, 5.06, 2.3},
	{1998, 28.34, 14.92, 4.78, 1.6},
	{1999, 20.89, -8.25, 4.64, 2.2},
	{2000, -9.03, 16.66, 5.82, 3.4},
	{2001, -11.85, 5.57, 3.40, 2.8},
	{2002, -21.97, 15.12, 1.61, 1.6},
	{2003, 28.36, 0.38, 1.01, 2.3},
	{2004, 10.74, 4.49, 1.37, 2.7},
	{2005, 4.83, 2.87, 3.15, 3.4},
	{2006, 15.61, 1.96, 4.73, 3.2},
	{2007, 5.48, 10.21, 4.36, 2.8},
	{2008, -36.55, 20.10, 1.37, 3.8},
	{2009, 25.94, -11.12, 0.15, -0.4},
	{2010, 14.82, 8.46, 0.14, 1.6},
	{2011, 2.10, 16.04, 0.05, 3.2},
	{2012, 15.89, 2.97, 0.09, 2.1},
	{2013, 32.15, -9.10, 0.06, 1.5},
	{2014, 13.52, 10.75, 0.03, 1.6},
	{2015, 1.38, 1.28, 0.05, 0.1},
	{2016, 11.77, 0.69, 0.32, 1.3},
	{2017, 21.61, 2.80, 0.93, 2.1},
	{2018, -4.23, -0.02, 1.94, 2.4},
	{2019, 31.21, 9.64, 1.55, 1.8},
	{2020, 18.02, 11.33, 0.09, 1.2},
	{2021, 28.47, -4.42, 0.06, 4.7},
	{2022, -18.04, -17.83, 2.02, 8.0},
	{2023, 26.06, 3.88, 5.07, 4.1},
	{2024, 24.88, -1.64, 4.97, 2.9},
}
