// Package profile resolves extraction profiles for a semester and year.
//
// Profiles are flat JSON or YAML documents stored under the key
// "{year}_{ODD|EVEN}", for example configs/2020_EVEN.json:
//
//	{
//	  "url": "https://results.example.edu/result.aspx",
//	  "roll_tb_name": "txtroll",
//	  "sem_dd_name": "ddlSem",
//	  "submit_bt_name": "btnSubmit",
//	  "name_id": "lblname",
//	  "roll_id": "lblroll",
//	  "reg_id": "lblreg",
//	  "sgpao_id": "lblbottom1",
//	  "sgpae_id": "lblbottom2",
//	  "ygpa_id": "lblbottom3"
//	}
//
// The Loader validates every document before returning a model.Profile and
// never returns a partially populated profile.
package profile
