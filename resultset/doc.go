/*
Package resultset provides the forward-only cursor over a query's rows.

A ResultSet is produced by executing a query through a connection or a
prepared statement. It maintains a cursor that starts before the first row;
Next advances it and returns false when the rows are exhausted, so it can
drive a plain for loop:

	rs, err := conn.Query(ctx, "SELECT ssn, name FROM employees")
	...
	for {
		ok, err := rs.Next()
		if err != nil || !ok {
			break
		}
		ssn, _ := rs.GetIntByName("ssn")
		name, _ := rs.GetStringByName("name")
		...
	}

Values are stored as raw engine bytes and converted on the fly when a typed
getter is called: a numeric column can be read with GetString, and a text
column holding "42" with GetInt. Columns are numbered from 1 and may also be
addressed by case-sensitive name; when several columns share a name the
first match wins. SQL NULL reads as the zero value from numeric and temporal
getters and as ""/nil from string and blob getters — IsNull tells the two
apart.
*/
package resultset
