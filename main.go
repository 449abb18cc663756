package main

import "secpredict/internal/app"

func main() {
	app.Main()
}
